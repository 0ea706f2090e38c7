package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/progress"
	"github.com/tarunb-0127/minilms/core/session"
	"github.com/tarunb-0127/minilms/services/lmsapi"
)

// TokenEnv names the env var holding the learner's bearer token.
const TokenEnv = "LMS_TOKEN"

var (
	readPasswordFunc = term.ReadPassword // mockable
	getenvFunc       = os.Getenv         // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer
}

func newCommandLine(conf *core.Config, logger core.Logger, out io.Writer) *commandLine {
	return &commandLine{conf: conf, logger: logger, out: out}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  courses - list the courses you are enrolled in")
	fmt.Fprintln(cli.out, "  enroll -course ID - enroll in a course")
	fmt.Fprintln(cli.out, "  unenroll -course ID - leave a course")
	fmt.Fprintln(cli.out, "  status -course ID - show the course modules, progress and feedback")
	fmt.Fprintln(cli.out, "  watch -course ID -module ID (-position SECONDS -duration SECONDS | -ended) - report playback of a module")
	fmt.Fprintln(cli.out, "  feedback -course ID -message TEXT -rating 1-5 - leave feedback once the course is done")
	fmt.Fprintf(cli.out, "The token is read from $%s or prompted.\n", TokenEnv)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	enrollCmd := flag.NewFlagSet("enroll", flag.ContinueOnError)
	enrollCmd.SetOutput(cli.out)
	enrollCourse := enrollCmd.Int("course", 0, "The course ID.")

	unenrollCmd := flag.NewFlagSet("unenroll", flag.ContinueOnError)
	unenrollCmd.SetOutput(cli.out)
	unenrollCourse := unenrollCmd.Int("course", 0, "The course ID.")

	statusCmd := flag.NewFlagSet("status", flag.ContinueOnError)
	statusCmd.SetOutput(cli.out)
	statusCourse := statusCmd.Int("course", 0, "The course ID.")

	watchCmd := flag.NewFlagSet("watch", flag.ContinueOnError)
	watchCmd.SetOutput(cli.out)
	watchCourse := watchCmd.Int("course", 0, "The course ID.")
	watchModule := watchCmd.Int("module", 0, "The module ID.")
	watchPosition := watchCmd.Float64("position", 0, "The playback position the media was paused at, in seconds.")
	watchDuration := watchCmd.Float64("duration", 0, "The media duration, in seconds.")
	watchEnded := watchCmd.Bool("ended", false, "The media was watched to the end.")

	feedbackCmd := flag.NewFlagSet("feedback", flag.ContinueOnError)
	feedbackCmd.SetOutput(cli.out)
	feedbackCourse := feedbackCmd.Int("course", 0, "The course ID.")
	feedbackMessage := feedbackCmd.String("message", "", "The feedback message.")
	feedbackRating := feedbackCmd.Int("rating", 0, "The rating, from 1 to 5.")

	switch args[1] {
	case "courses":
		return cli.withClient(cli.courses)
	case "enroll":
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enrollCourse <= 0 {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.withClient(func(ctx context.Context, client *lmsapi.Client) error {
			return cli.enroll(ctx, client, *enrollCourse)
		})
	case "unenroll":
		if err := unenrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *unenrollCourse <= 0 {
			unenrollCmd.Usage()
			return errHelp
		}
		return cli.withClient(func(ctx context.Context, client *lmsapi.Client) error {
			return cli.unenroll(ctx, client, *unenrollCourse)
		})
	case "status":
		if err := statusCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *statusCourse <= 0 {
			statusCmd.Usage()
			return errHelp
		}
		return cli.withTracker(*statusCourse, cli.status)
	case "watch":
		if err := watchCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *watchCourse <= 0 || *watchModule <= 0 || (!*watchEnded && *watchDuration <= 0) {
			watchCmd.Usage()
			return errHelp
		}
		return cli.withTracker(*watchCourse, func(ctx context.Context, tr *progress.Tracker) error {
			return cli.watch(ctx, tr, *watchModule, *watchPosition, *watchDuration, *watchEnded)
		})
	case "feedback":
		if err := feedbackCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *feedbackCourse <= 0 || *feedbackRating == 0 {
			feedbackCmd.Usage()
			return errHelp
		}
		return cli.withTracker(*feedbackCourse, func(ctx context.Context, tr *progress.Tracker) error {
			return cli.feedback(ctx, tr, *feedbackMessage, *feedbackRating)
		})
	default:
		cli.printUsage()
		return errHelp
	}
}

// session reads the token from the environment, or prompts for it.
func (cli *commandLine) session() (session.Session, error) {
	token := strings.TrimSpace(getenvFunc(TokenEnv))
	if token == "" {
		fmt.Fprint(cli.out, "Enter token:")
		b, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return session.Session{}, pkgerrors.Wrap(err, "reading token")
		}
		token = string(b)
	}
	return session.FromToken(token)
}

func (cli *commandLine) withClient(fn func(context.Context, *lmsapi.Client) error) error {
	sess, err := cli.session()
	if err != nil {
		return err
	}
	return fn(context.Background(), lmsapi.NewFromConfig(cli.conf, sess))
}

// withTracker loads a tracker of courseID, runs fn and flushes pending progress.
func (cli *commandLine) withTracker(courseID int, fn func(context.Context, *progress.Tracker) error) error {
	sess, err := cli.session()
	if err != nil {
		return err
	}
	client := lmsapi.NewFromConfig(cli.conf, sess)

	ctx := context.Background()
	tracker := progress.NewTracker(progress.TrackerDeps{
		CourseID:      courseID,
		Session:       sess,
		Modules:       client,
		Progress:      client,
		Feedbacks:     client,
		Enrollments:   client,
		Logger:        cli.logger,
		DebounceDelay: cli.conf.Progress.DebounceDelay,
		Context:       ctx,
	})
	if err = tracker.Load(ctx); err != nil {
		if err == progress.ErrNotEnrolled {
			fmt.Fprintf(cli.out, "You are not enrolled in course %d. Run: enroll -course %d\n", courseID, courseID)
		}
		return err
	}

	fnErr := fn(ctx, tracker)

	closeCtx, cancel := context.WithTimeout(ctx, cli.conf.API.Timeout)
	defer cancel()
	if err = tracker.Close(closeCtx); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
