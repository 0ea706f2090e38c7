package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf       *core.Config
	db         *sql.DB
	modules    course.Repository
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  addcourse -id ID -name NAME [-description TEXT] - register a course of the LMS catalog")
	fmt.Fprintln(cli.out, "  addmodule -course ID -name NAME [-description TEXT] [-file PATH] [-position N] - add a module to a course")
	fmt.Fprintln(cli.out, "  token -learner ID - print a signed learner token (development only)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCourseCmd := flag.NewFlagSet("addcourse", flag.ContinueOnError)
	addCourseCmd.SetOutput(cli.out)
	addCourseID := addCourseCmd.Int("id", 0, "The course ID, as in the LMS catalog.")
	addCourseName := addCourseCmd.String("name", "", "The course name.")
	addCourseDesc := addCourseCmd.String("description", "", "The course description.")

	addModuleCmd := flag.NewFlagSet("addmodule", flag.ContinueOnError)
	addModuleCmd.SetOutput(cli.out)
	addModuleCourse := addModuleCmd.Int("course", 0, "The course ID.")
	addModuleName := addModuleCmd.String("name", "", "The module name.")
	addModuleDesc := addModuleCmd.String("description", "", "The module description.")
	addModuleFile := addModuleCmd.String("file", "", "The module media: a path relative to the uploads URL or an absolute URL.")
	addModulePos := addModuleCmd.Int("position", -1, "The module position within the course. Defaults to last.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenLearner := tokenCmd.Int("learner", 0, "The learner ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addcourse":
		if err := addCourseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCourseID == 0 || *addCourseName == "" {
			addCourseCmd.Usage()
			return errHelp
		}
		return cli.addCourse(course.NewCourse{
			ID:          *addCourseID,
			Name:        *addCourseName,
			Description: *addCourseDesc,
		})
	case "addmodule":
		if err := addModuleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addModuleCourse == 0 || *addModuleName == "" {
			addModuleCmd.Usage()
			return errHelp
		}
		return cli.addModule(course.NewModule{
			CourseID:    *addModuleCourse,
			Name:        *addModuleName,
			Description: *addModuleDesc,
			FilePath:    *addModuleFile,
			Position:    *addModulePos,
		})
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenLearner <= 0 {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenLearner)
	default:
		cli.printUsage()
		return errHelp
	}
}
