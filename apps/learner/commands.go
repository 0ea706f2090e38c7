package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/progress"
	"github.com/tarunb-0127/minilms/services/lmsapi"
)

func (cli *commandLine) courses(ctx context.Context, client *lmsapi.Client) error {
	courses, err := client.MyCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "You are not enrolled in any course.")
		return nil
	}
	for _, c := range courses {
		fmt.Fprintf(cli.out, "[%d] %s\n", c.ID, c.Name)
	}
	return nil
}

func (cli *commandLine) enroll(ctx context.Context, client *lmsapi.Client, courseID int) error {
	c, err := client.Course(ctx, courseID)
	if err != nil {
		if lmsapi.IsStatus(err, http.StatusNotFound) {
			fmt.Fprintf(cli.out, "Course %d does not exist.\n", courseID)
		}
		return err
	}
	if _, err = client.Enroll(ctx, courseID); err != nil {
		// the only rejected field is the course: already enrolled
		if lmsapi.IsStatus(err, http.StatusBadRequest) {
			fmt.Fprintf(cli.out, "Already enrolled in %s.\n", c.Name)
			return nil
		}
		return err
	}
	fmt.Fprintf(cli.out, "Enrolled in %s.\n", c.Name)
	return nil
}

func (cli *commandLine) unenroll(ctx context.Context, client *lmsapi.Client, courseID int) error {
	courses, err := client.MyCourses(ctx)
	if err != nil {
		return err
	}
	c, ok := enrollment.Find(courses, courseID)
	if !ok {
		fmt.Fprintf(cli.out, "You are not enrolled in course %d.\n", courseID)
		return progress.ErrNotEnrolled
	}
	if err = client.Unenroll(ctx, c.EnrollmentID); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Left %s.\n", c.Name)
	return nil
}

func (cli *commandLine) status(_ context.Context, tr *progress.Tracker) error {
	if c := tr.Course(); c.Name != "" {
		fmt.Fprintln(cli.out, c.Name)
	}
	cli.printSnapshot(tr.Snapshot())

	fbs := tr.Feedbacks()
	if len(fbs) == 0 {
		return nil
	}
	fmt.Fprintln(cli.out, "Feedback:")
	for _, fb := range fbs {
		fmt.Fprintf(cli.out, "  %s learner %d: %s\n", fb.Stars(), fb.LearnerID, fb.Message)
	}
	return nil
}

func (cli *commandLine) watch(ctx context.Context, tr *progress.Tracker, moduleID int, position, duration float64, ended bool) error {
	if err := tr.Select(moduleID); err != nil {
		return err
	}
	if mod, ok := findModule(tr.Modules(), moduleID); ok && !mod.IsVideo() {
		fmt.Fprintf(cli.out, "%s is not a video, its progress is not tracked\n", mod.Name)
		return nil
	}

	var err error
	if ended {
		err = tr.Ended(ctx)
	} else {
		err = tr.Pause(position, duration)
	}
	if err != nil {
		return err
	}
	// send the debounced update now
	if err = tr.Close(ctx); err != nil {
		return err
	}
	cli.printSnapshot(tr.Snapshot())
	return nil
}

func (cli *commandLine) feedback(ctx context.Context, tr *progress.Tracker, message string, rating int) error {
	modules := tr.Modules()
	last, ok := course.Last(modules)
	if !ok {
		return errors.New("the course has no modules")
	}
	if err := tr.Select(last.ID); err != nil {
		return err
	}
	if tr.Snapshot().HasFeedback {
		fmt.Fprintln(cli.out, "Feedback already submitted. Thank you!")
		return nil
	}

	fb, err := tr.SubmitFeedback(ctx, message, rating)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Feedback submitted: %s\n", fb.Stars())
	return nil
}

func (cli *commandLine) printSnapshot(snap progress.Snapshot) {
	fmt.Fprintf(cli.out, "Course %d: %d%%", snap.CourseID, snap.Percent)
	if snap.HasConfirmed && snap.Confirmed != snap.Percent {
		fmt.Fprintf(cli.out, " (server: %d%%)", snap.Confirmed)
	}
	fmt.Fprintln(cli.out)

	for i, ms := range snap.Modules {
		marker := " "
		if ms.Module.ID == snap.SelectedModuleID {
			marker = ">"
		}
		done := ""
		if ms.Progress.Completed {
			done = " ✓"
		}
		fmt.Fprintf(cli.out, "%s %d. %s [%d] %3d%%%s\n", marker, i+1, ms.Module.Name, ms.Module.ID, ms.Progress.Percent, done)
		if url := ms.Module.FileURL(cli.conf.API.UploadsURL); url != "" {
			fmt.Fprintf(cli.out, "     %s\n", url)
		}
	}
	if snap.FeedbackOpen {
		fmt.Fprintln(cli.out, "Feedback is open for this course.")
	}
}

func findModule(modules []course.Module, id int) (course.Module, bool) {
	for _, m := range modules {
		if m.ID == id {
			return m, true
		}
	}
	return course.Module{}, false
}
