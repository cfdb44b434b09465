package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"rollcall/attendance/internal/auth"
	"rollcall/attendance/internal/locale"
	"rollcall/attendance/internal/metrics"
	"rollcall/attendance/internal/observability"
	"rollcall/attendance/internal/roster"
)

type Choice int

const (
	ChoiceAddStudent Choice = iota + 1
	ChoiceTakeAttendance
	ChoiceDisplay
	ChoiceSave
	ChoiceAddTeacher
	ChoiceExit
)

var (
	ErrNotNumber     = errors.New("menu input is not a number")
	ErrInvalidChoice = errors.New("menu choice out of range")

	errInputClosed = errors.New("input closed")
)

type Roster interface {
	Add(id, name string) (roster.Student, error)
	Get(id string) (roster.Student, bool)
	TakeAttendance(presence []bool) (roster.Summary, error)
	All() iter.Seq[roster.Student]
	Len() int
	PresentCount() int
	Save() error
}

type Authenticator interface {
	AddTeacher(username, password string) (auth.Teacher, error)
	Authenticate(username, password string) (auth.Teacher, error)
}

type Deps struct {
	Roster   Roster
	Auth     Authenticator
	Messages *locale.Catalog
	Metrics  *metrics.Session
	Log      *slog.Logger
}

// Controller runs the numbered menu against an input and output stream.
// Every operation runs on the goroutine that called Run or Dispatch.
type Controller struct {
	deps Deps
	in   *lineReader
	out  io.Writer
}

func New(in io.Reader, out io.Writer, deps Deps) *Controller {
	if deps.Log == nil {
		deps.Log = observability.Discard()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewSession()
	}
	return &Controller{
		deps: deps,
		in:   newLineReader(in),
		out:  out,
	}
}

// Run loops until the operator exits, input ends, or ctx is cancelled. Both
// exit and end of input save the roster first; cancellation returns
// ctx.Err() between operations without saving.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.showMenu()
		line, err := c.readLine(ctx)
		if err != nil {
			if errors.Is(err, errInputClosed) {
				c.exit()
				return nil
			}
			return err
		}

		choice, err := ParseChoice(line)
		switch {
		case errors.Is(err, ErrNotNumber):
			c.println(c.t("InputNotNumber"))
			continue
		case errors.Is(err, ErrInvalidChoice):
			c.println(c.t("InputInvalidChoice"))
			continue
		}

		if choice == ChoiceExit {
			c.exit()
			return nil
		}
		if err := c.Dispatch(ctx, choice); err != nil {
			if errors.Is(err, errInputClosed) {
				c.exit()
				return nil
			}
			return err
		}
	}
}

// ParseChoice parses a menu line. Surrounding whitespace is ignored.
func ParseChoice(line string) (Choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, ErrNotNumber
	}
	if n < int(ChoiceAddStudent) || n > int(ChoiceExit) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChoice, n)
	}
	return Choice(n), nil
}

// Dispatch runs one menu operation. ChoiceExit saves but does not stop Run;
// callers driving the loop themselves decide when to stop.
func (c *Controller) Dispatch(ctx context.Context, choice Choice) error {
	switch choice {
	case ChoiceAddStudent:
		return c.addStudent(ctx)
	case ChoiceTakeAttendance:
		return c.takeAttendance(ctx)
	case ChoiceDisplay:
		c.display()
	case ChoiceSave:
		c.save()
	case ChoiceAddTeacher:
		return c.addTeacher(ctx)
	case ChoiceExit:
		c.exit()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
	}
	return nil
}

func (c *Controller) showMenu() {
	c.println("")
	for _, id := range []string{
		"MenuTitle",
		"MenuAddStudent",
		"MenuTakeAttendance",
		"MenuDisplay",
		"MenuSave",
		"MenuAddTeacher",
		"MenuExit",
	} {
		c.println(c.t(id))
	}
	c.print(c.t("MenuPrompt"))
}

func (c *Controller) addStudent(ctx context.Context) error {
	id, err := c.ask(ctx, "PromptStudentID")
	if err != nil {
		return err
	}
	if _, exists := c.deps.Roster.Get(id); exists {
		c.println(c.t("StudentDuplicate"))
		return nil
	}
	name, err := c.ask(ctx, "PromptStudentName")
	if err != nil {
		return err
	}

	_, err = c.deps.Roster.Add(id, name)
	switch {
	case errors.Is(err, roster.ErrDuplicateID):
		c.println(c.t("StudentDuplicate"))
		return nil
	case errors.Is(err, roster.ErrSaveAfterAdd):
		c.deps.Metrics.StudentsAdded.Inc()
		c.deps.Metrics.ObserveSave(err)
		c.deps.Log.Warn("student added but roster not saved", "id", id, "err", err)
		c.println(c.t("StudentAdded"))
		c.println(c.t("SaveFailed", map[string]any{"Err": err}))
	case err != nil:
		return fmt.Errorf("add student: %w", err)
	default:
		c.deps.Metrics.StudentsAdded.Inc()
		c.deps.Metrics.ObserveSave(nil)
		c.deps.Log.Info("student added", "id", id)
		c.println(c.t("StudentAdded"))
		c.println(c.t("SaveOK"))
	}
	c.observeRoster()
	return nil
}

func (c *Controller) takeAttendance(ctx context.Context) error {
	username, err := c.ask(ctx, "PromptUsername")
	if err != nil {
		return err
	}
	password, err := c.ask(ctx, "PromptPassword")
	if err != nil {
		return err
	}

	teacher, err := c.deps.Auth.Authenticate(username, password)
	if err != nil {
		c.deps.Metrics.AuthFailures.Inc()
		c.deps.Log.Info("attendance login rejected", "username", username)
		c.println(c.t("AttendanceAuthFailed"))
		return nil
	}

	c.println(c.t("AttendanceGreeting", map[string]any{"Username": teacher.Username}))
	presence := make([]bool, 0, c.deps.Roster.Len())
	for st := range c.deps.Roster.All() {
		answer, err := c.ask(ctx, "PromptPresence", map[string]any{"Name": st.Name})
		if err != nil {
			c.println(c.t("AttendanceAborted"))
			return err
		}
		presence = append(presence, strings.EqualFold(strings.TrimSpace(answer), "y"))
	}

	sum, err := c.deps.Roster.TakeAttendance(presence)
	if err != nil {
		return fmt.Errorf("take attendance: %w", err)
	}
	c.deps.Metrics.Passes.Inc()
	c.observeRoster()
	c.deps.Log.Info("attendance taken", "teacher", teacher.Username, "present", sum.Present, "absent", sum.Absent)
	c.println(c.t("AttendanceDone", map[string]any{"Present": sum.Present, "Absent": sum.Absent}))
	return nil
}

func (c *Controller) display() {
	c.println("")
	c.println(c.t("RosterHeader"))
	if c.deps.Roster.Len() == 0 {
		c.println(c.t("RosterEmpty"))
		return
	}
	for st := range c.deps.Roster.All() {
		status := c.t("StatusAbsent")
		if st.Present {
			status = c.t("StatusPresent")
		}
		c.println(c.t("RosterRow", map[string]any{"ID": st.ID, "Name": st.Name, "Status": status}))
	}
}

func (c *Controller) save() {
	err := c.deps.Roster.Save()
	c.deps.Metrics.ObserveSave(err)
	if err != nil {
		c.deps.Log.Warn("roster save failed", "err", err)
		c.println(c.t("SaveFailed", map[string]any{"Err": err}))
		return
	}
	c.println(c.t("SaveOK"))
}

func (c *Controller) addTeacher(ctx context.Context) error {
	username, err := c.ask(ctx, "PromptTeacherUsername")
	if err != nil {
		return err
	}
	password, err := c.ask(ctx, "PromptPassword")
	if err != nil {
		return err
	}

	if _, err := c.deps.Auth.AddTeacher(username, password); err != nil {
		c.deps.Log.Warn("add teacher failed", "username", username, "err", err)
		c.println(c.t("TeacherFailed", map[string]any{"Err": err}))
		return nil
	}
	c.deps.Metrics.TeachersAdded.Inc()
	c.deps.Log.Info("teacher added", "username", username)
	c.println(c.t("TeacherAdded"))
	return nil
}

func (c *Controller) exit() {
	c.save()
	c.println(c.t("ExitBye"))
}

func (c *Controller) observeRoster() {
	c.deps.Metrics.ObserveRoster(c.deps.Roster.Len(), c.deps.Roster.PresentCount())
}

func (c *Controller) ask(ctx context.Context, id string, data ...map[string]any) (string, error) {
	c.print(c.t(id, data...))
	return c.readLine(ctx)
}

func (c *Controller) readLine(ctx context.Context) (string, error) {
	line, err := c.in.ReadLine(ctx)
	// plain errInputClosed is a clean end of input; anything joined to it is a read failure
	if err != errInputClosed && errors.Is(err, errInputClosed) {
		c.deps.Log.Error("read console input", "err", err)
	}
	return line, err
}

// Close releases the input reader goroutine. The controller cannot read
// input afterwards.
func (c *Controller) Close() {
	c.in.Stop()
}

func (c *Controller) t(id string, data ...map[string]any) string {
	return c.deps.Messages.T(id, data...)
}

func (c *Controller) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Controller) println(s string) {
	_, _ = io.WriteString(c.out, s+"\n")
}
