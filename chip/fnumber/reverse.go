package fnumber

import "math"

// A4Hz is the reference pitch the reverse lookup tables are tuned against.
const A4Hz = 440.0

// Entry is one slot of a generated 12-EDO F-number table: the F-number at
// a given block, the frequency it actually produces, and how far off the
// 12-EDO ideal it landed.
type Entry struct {
	FNum        uint32
	Block       uint8
	TargetHz    float64
	ActualHz    float64
	ErrorHz     float64
	ErrorCents  float64
}

// Table is an 8-block x 12-semitone grid of Entry, built relative to A4.
// A nil element means no F-number in range produced a usable frequency for
// that (block, semitone) cell.
type Table [8][12]*Entry

// GenerateTable builds the 12-EDO F-number table for a family at the given
// master clock, centered on A4 = 440 Hz at the family's A4Block. Cell
// (block, semitone) targets the frequency 12-EDO-offset from A4 by
// (block-A4Block)*12 + (semitone-9) semitones (semitone 9 is A).
//
// For each cell the ideal fractional F-number is computed and the three
// integer neighbors (floor-1, floor, floor+1) are evaluated; the one with
// lowest absolute Hz error is kept.
func GenerateTable(f Family, masterClockHz float64) (Table, error) {
	var table Table
	if math.IsNaN(masterClockHz) || math.IsInf(masterClockHz, 0) || masterClockHz <= 0 {
		return table, errInvalidClock
	}
	maxBlock := int(1<<f.BlockBits) - 1
	if maxBlock > 7 {
		maxBlock = 7
	}
	fnumMax := uint32(1)<<f.FNumBits - 1

	for block := 0; block <= maxBlock; block++ {
		for semitone := 0; semitone < 12; semitone++ {
			semitoneOffset := (block-int(f.A4Block))*12 + (semitone - 9)
			targetHz := A4Hz * math.Pow(2, float64(semitoneOffset)/12.0)

			ideal := f.FromHz(targetHz, uint8(block), masterClockHz)
			var floorF int64
			if !math.IsNaN(ideal) && !math.IsInf(ideal, 0) && ideal > 0 {
				floorF = int64(math.Floor(ideal))
			}

			var best *Entry
			for delta := int64(-1); delta <= 1; delta++ {
				cand := floorF + delta
				if cand < 1 || uint32(cand) > fnumMax {
					continue
				}
				produced, err := f.ToHz(uint32(cand), uint8(block), masterClockHz)
				if err != nil {
					continue
				}
				errHz := math.Abs(produced - targetHz)
				errCents := math.Abs(math.Log2(produced/targetHz) * 1200)
				if best == nil || errHz < best.ErrorHz {
					best = &Entry{
						FNum:       uint32(cand),
						Block:      uint8(block),
						TargetHz:   targetHz,
						ActualHz:   produced,
						ErrorHz:    errHz,
						ErrorCents: errCents,
					}
				}
			}
			table[block][semitone] = best
		}
	}
	return table, nil
}

var errInvalidClock = fnumberError("fnumber: invalid master clock")

type fnumberError string

func (e fnumberError) Error() string { return string(e) }

// FindClosest scans a generated Table for the entry whose produced
// frequency is nearest freq, using cents error as the primary metric and
// absolute Hz error to break ties.
func FindClosest(table Table, freq float64) (*Entry, error) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 {
		return nil, errInvalidClock
	}
	var best *Entry
	var bestCents, bestHz float64
	for _, row := range table {
		for _, e := range row {
			if e == nil || e.ActualHz <= 0 || math.IsInf(e.ActualHz, 0) {
				continue
			}
			errCents := math.Abs(math.Log2(e.ActualHz/freq) * 1200)
			errHz := math.Abs(e.ActualHz - freq)
			if best == nil || errCents < bestCents || (errCents == bestCents && errHz < bestHz) {
				best, bestCents, bestHz = e, errCents, errHz
			}
		}
	}
	if best == nil {
		return nil, errInvalidClock
	}
	return best, nil
}

// FindAndTune behaves like FindClosest but then sweeps F-number neighbors
// of the match (holding block fixed) to minimize absolute Hz error,
// exploiting the fact that Hz is linear in F for fixed block
// (F -> k*F) once the per-F Hz step k is known from the starting entry.
func FindAndTune(f Family, table Table, freq, masterClockHz float64) (*Entry, error) {
	start, err := FindClosest(table, freq)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(masterClockHz) || math.IsInf(masterClockHz, 0) || masterClockHz <= 0 {
		return nil, errInvalidClock
	}

	block := start.Block
	bestFNum := start.FNum
	bestErr := math.Abs(start.ActualHz - freq)

	var scaleK float64
	if start.FNum > 0 {
		scaleK = start.ActualHz / float64(start.FNum)
	}
	fnumMax := uint32(1)<<f.FNumBits - 1

	produce := func(cand uint32) (float64, error) {
		if scaleK > 0 {
			return scaleK * float64(cand), nil
		}
		return f.ToHz(cand, block, masterClockHz)
	}

	for cand := start.FNum + 1; cand <= fnumMax; cand++ {
		produced, err := produce(cand)
		if err != nil {
			break
		}
		e := math.Abs(produced - freq)
		if e < bestErr {
			bestErr = e
			bestFNum = cand
			continue
		}
		break
	}
	for cand := start.FNum; cand > 1; cand-- {
		down := cand - 1
		produced, err := produce(down)
		if err != nil {
			break
		}
		e := math.Abs(produced - freq)
		if e < bestErr {
			bestErr = e
			bestFNum = down
			continue
		}
		break
	}

	actual, err := f.ToHz(bestFNum, block, masterClockHz)
	if err != nil {
		return nil, err
	}
	return &Entry{
		FNum:       bestFNum,
		Block:      block,
		TargetHz:   freq,
		ActualHz:   actual,
		ErrorHz:    math.Abs(actual - freq),
		ErrorCents: math.Abs(math.Log2(actual/freq) * 1200),
	}, nil
}
