package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
)

// addCourse registers a catalog course, or renames it when its id exists.
func (cli *commandLine) addCourse(nc course.NewCourse) error {
	if err := nc.Validate(cli.validate); err != nil {
		return core.TranslateErrors(err, cli.translator)
	}

	c, err := cli.modules.SaveCourse(context.Background(), nc)
	if err != nil {
		return errors.Wrap(err, "saving course")
	}
	fmt.Fprintf(cli.out, "course %d saved: %s\n", c.ID, c.Name)
	return nil
}
