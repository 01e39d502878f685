package main

import (
	"fidescrape/cmd/fidescrape/commands"
	"fidescrape/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
