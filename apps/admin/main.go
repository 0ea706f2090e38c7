package main

import (
	"log"
	"os"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/storage/database"
	sqlxrepos "github.com/tarunb-0127/minilms/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	validate, translator := core.NewValidator()
	cli := commandLine{
		conf:       conf,
		db:         db.DB,
		modules:    sqlxrepos.NewModuleRepository(db),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
