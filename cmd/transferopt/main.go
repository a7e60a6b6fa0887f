// Command transferopt decides pending elective transfers offline.
//
//	transferopt solve    --in snapshot.json [--algo ilp] [--time 10s] [--out result.json]
//	transferopt compare  --db transfers.db
//	transferopt generate --students 200 --out snapshot.json [--db transfers.db]
//
// Defaults come from TRANSFEROPT_DB, TRANSFEROPT_ALGO, TRANSFEROPT_TIME_LIMIT
// and TRANSFEROPT_LOG_LEVEL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
