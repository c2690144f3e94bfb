package main

import (
	"tablescrape/cmd/tablescrape/commands"
	"tablescrape/lib/util/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
