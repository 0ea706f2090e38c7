package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/tarunb-0127/minilms/apps/api/echo"
	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/progress"
	logsvc "github.com/tarunb-0127/minilms/services/logger"
	"github.com/tarunb-0127/minilms/storage/database"
	inmemdb "github.com/tarunb-0127/minilms/storage/database/inmem"
	sqlxrepos "github.com/tarunb-0127/minilms/storage/database/sqlx"
)

type repositories struct {
	modules     course.Repository
	enrollments enrollment.Repository
	progress    progress.Repository
	feedbacks   feedback.Repository
	close       func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	validate, translator := core.NewValidator()
	enrollmentSvc := enrollment.NewService(repos.enrollments, repos.modules)
	progressSvc := progress.NewService(repos.progress, repos.modules)
	feedbackSvc := feedback.NewService(repos.feedbacks)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q storage %q", conf.Build, conf.Storage))
	defer logger.Info("Application stopped")

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Modules:       repos.modules,
			EnrollmentSvc: enrollmentSvc,
			ProgressSvc:   progressSvc,
			FeedbackSvc:   feedbackSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStorage(conf *core.Config) (repositories, error) {
	switch conf.Storage {
	case core.StorageInMem:
		db, err := inmemdb.Open()
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			modules:     inmemdb.NewModuleRepository(db),
			enrollments: inmemdb.NewEnrollmentRepository(db),
			progress:    inmemdb.NewProgressRepository(db),
			feedbacks:   inmemdb.NewFeedbackRepository(db),
			close:       func() error { return nil },
		}, nil
	case core.StoragePostgres:
		db, err := database.SetUp(conf)
		if err != nil {
			return repositories{}, err
		}
		return newSQLRepositories(db), nil
	}
	return repositories{}, fmt.Errorf("unknown storage %q", conf.Storage)
}

func newSQLRepositories(db *sqlx.DB) repositories {
	return repositories{
		modules:     sqlxrepos.NewModuleRepository(db),
		enrollments: sqlxrepos.NewEnrollmentRepository(db),
		progress:    sqlxrepos.NewProgressRepository(db),
		feedbacks:   sqlxrepos.NewFeedbackRepository(db),
		close:       db.Close,
	}
}
