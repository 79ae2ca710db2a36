package main

import (
	"apiprobe/cmd/apiprobe/commands"
	"apiprobe/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
