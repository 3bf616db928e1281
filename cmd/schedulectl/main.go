package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/locvowork/shift_scheduler/internal/bootstrap"
	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/grid"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

type options struct {
	name  string
	age   string
	id    int64
	day   string
	slot  string
	slots string
	out   string
	yes   bool
}

func main() {
	action := flag.String("action", "show", "Action: list-employees, add-employee, delete-employee, assign, show, entries, save-slots, clear, export, export-flat")
	var opts options
	flag.StringVar(&opts.name, "name", "", "Employee name (add-employee, assign)")
	flag.StringVar(&opts.age, "age", "", "Employee age, optional (add-employee)")
	flag.Int64Var(&opts.id, "id", 0, "Employee id (delete-employee, assign)")
	flag.StringVar(&opts.day, "day", "", "Day, e.g. Mon (assign)")
	flag.StringVar(&opts.slot, "slot", "", "Time slot, e.g. 09:00-10:00 (assign)")
	flag.StringVar(&opts.slots, "slots", "", "Comma separated time slots (save-slots)")
	flag.StringVar(&opts.out, "out", "", "Output path (export, export-flat); defaults to EXPORT_PATH")
	flag.BoolVar(&opts.yes, "yes", false, "Skip the confirmation prompt for clear")
	flag.Parse()

	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.InitializeCore(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		log.Fatal(err)
	}
	defer app.Close()

	if err := run(ctx, app, *action, opts, os.Stdout); err != nil {
		logger.ErrorLog(ctx, "Action "+*action+" failed", err)
		app.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, action string, opts options, w io.Writer) error {
	switch action {
	case "list-employees":
		employees, err := app.Employees.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tAGE")
		for _, e := range employees {
			age := "-"
			if e.Age != nil {
				age = strconv.Itoa(*e.Age)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.Name, age)
		}
		return tw.Flush()

	case "add-employee":
		e, err := app.Employees.Add(ctx, opts.name, opts.age)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Added %s with id %d\n", e.Name, e.ID)
		return nil

	case "delete-employee":
		if err := app.Employees.Delete(ctx, opts.id); err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted employee %d and their shifts\n", opts.id)
		return nil

	case "assign":
		return assign(ctx, app, opts, w)

	case "show":
		printGrid(w, app.Schedule.Snapshot())
		return nil

	case "entries":
		rows, err := app.Schedule.Entries(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMPLOYEE\tDAY\tTIME")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.EmployeeName, r.Day, r.Slot)
		}
		return tw.Flush()

	case "save-slots":
		slots, err := domain.ParseTimeSlots(splitList(opts.slots))
		if err != nil {
			return err
		}
		app.Schedule.SetSlots(ctx, slots)
		diff, err := app.Schedule.Save(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %d time slots (%d entries removed)\n", len(slots), len(diff.Remove))
		return nil

	case "clear":
		if !opts.yes && !confirm(w, "This will delete every schedule entry!") {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
		return app.Schedule.Clear(ctx)

	case "export":
		path, err := app.Export.ExportGrid(ctx, opts.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Schedule written to %s\n", path)
		return nil

	case "export-flat":
		path, err := app.Export.ExportRows(ctx, opts.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Schedule entries written to %s\n", path)
		return nil
	}

	flag.PrintDefaults()
	return fmt.Errorf("unknown action %q", action)
}

// assign adds one employee to a cell and saves the grid.
func assign(ctx context.Context, app *bootstrap.App, opts options, w io.Writer) error {
	day, err := domain.ParseDay(opts.day)
	if err != nil {
		return err
	}
	slot, err := domain.ParseTimeSlot(opts.slot)
	if err != nil {
		return err
	}
	row := app.Schedule.Snapshot().RowOf(slot)
	if row < 0 {
		return fmt.Errorf("%w: %s is not on the grid", domain.ErrInvalidSlot, slot)
	}

	if opts.id != 0 {
		err = app.Schedule.Assign(ctx, day, row, opts.id)
	} else {
		var ok bool
		ok, err = app.Schedule.AssignByName(ctx, day, row, opts.name)
		if err == nil && !ok {
			fmt.Fprintf(w, "No employee named %q, nothing assigned\n", opts.name)
			return nil
		}
	}
	if err != nil {
		return err
	}

	if _, err := app.Schedule.Save(ctx); err != nil {
		return err
	}
	text, _ := app.Schedule.Snapshot().Text(day, row)
	fmt.Fprintf(w, "%s %s: %s\n", day, slot, text)
	return nil
}

func printGrid(w io.Writer, g *grid.Grid) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"TIME"}
	for _, d := range domain.Days {
		header = append(header, string(d))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	table := g.DisplayTable()
	for i, slot := range g.Slots() {
		fmt.Fprintln(tw, slot.String()+"\t"+strings.Join(table[i], "\t"))
	}
	tw.Flush()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func confirm(w io.Writer, warning string) bool {
	fmt.Fprintln(w, "⚠️  "+warning)
	fmt.Fprint(w, "Continue? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	return response == "yes"
}
