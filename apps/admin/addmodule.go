package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
)

// addModule appends a module to a course, or inserts it at nm.Position when set.
func (cli *commandLine) addModule(nm course.NewModule) error {
	ctx := context.Background()

	if nm.Position < 0 {
		modules, err := cli.modules.QueryCourseModules(ctx, nm.CourseID)
		if err != nil {
			return errors.Wrap(err, "querying course modules")
		}
		nm.Position = 0
		if last, ok := course.Last(modules); ok {
			nm.Position = last.Position + 1
		}
	}
	if err := nm.Validate(cli.validate); err != nil {
		return core.TranslateErrors(err, cli.translator)
	}

	mod, err := cli.modules.CreateModule(ctx, nm)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	fmt.Fprintf(cli.out, "module %d added to course %d at position %d\n", mod.ID, mod.CourseID, mod.Position)
	return nil
}
