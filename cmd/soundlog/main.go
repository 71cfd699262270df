// Command soundlog is a small diagnostic front-end over the soundlog
// library: parse lists a file's decoded command stream, play replays it
// through the stream processor and prints the events a chip-state tracker
// derives from it, and redump round-trips a file through the stream
// processor (expanding DAC streams) and re-serializes the result.
package main

func main() {
	Execute()
}
