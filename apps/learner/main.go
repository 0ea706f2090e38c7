package main

import (
	"log"
	"os"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/progress"
	logsvc "github.com/tarunb-0127/minilms/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "LEARNER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := newCommandLine(conf, logger, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		// not enrolled: the command already said so
		if err != errHelp && err != progress.ErrNotEnrolled {
			logger.Error("learner command failed", err)
		}
		os.Exit(1)
	}
}
