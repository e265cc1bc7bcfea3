package main

import (
	"bytes"
	"context"
	"os"

	"github.com/desertthunder/libratech/internal/formatter"
	"github.com/desertthunder/libratech/internal/library"
	"github.com/desertthunder/libratech/internal/models"
	"github.com/urfave/cli/v3"
)

func (r *Runner) printStudents(students []models.Student, asJSON bool) error {
	if asJSON {
		return r.writeJSON(students, true)
	}
	if len(students) == 0 {
		return r.writePlain("No students found.\n")
	}
	return r.writePlain("%s\n%d student(s)\n", formatter.StudentsTable(students), len(students))
}

// StudentsList prints the roster.
func (r *Runner) StudentsList(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	students, err := lib.ListStudents(ctx)
	if err != nil {
		return err
	}
	return r.printStudents(students, cmd.Bool("json"))
}

// StudentsAdd registers one student from flags.
func (r *Runner) StudentsAdd(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	out, err := lib.AddStudent(ctx, models.StudentInput{
		Name:          cmd.String("name"),
		StudentNumber: cmd.String("number"),
		Email:         cmd.String("email"),
		Grade:         cmd.String("grade"),
	})
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}

// StudentsDelete removes the student with the given number.
func (r *Runner) StudentsDelete(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	number, err := requireArg(cmd, "number")
	if err != nil {
		return err
	}
	st, err := lib.FindStudentByNumber(ctx, number)
	if err != nil {
		return err
	}
	out, err := lib.DeleteStudent(ctx, st.ID)
	if err != nil {
		return err
	}
	return r.report(out, cmd.Bool("json"))
}

// StudentsSearch filters the roster.
func (r *Runner) StudentsSearch(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	students, err := lib.SearchStudents(ctx, cmd.StringArg("query"))
	if err != nil {
		return err
	}
	return r.printStudents(students, cmd.Bool("json"))
}

// StudentsCards prints library cards to the output or a file.
func (r *Runner) StudentsCards(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	var students []models.Student
	if number := cmd.StringArg("number"); number != "" {
		st, err := lib.FindStudentByNumber(ctx, number)
		if err != nil {
			return err
		}
		students = []models.Student{st}
	} else {
		all, err := lib.ListStudents(ctx)
		if err != nil {
			return err
		}
		students = all
	}

	path := cmd.String("output")
	if path == "" {
		return formatter.WriteCards(r.output, cmd.String("school"), students)
	}

	var buf bytes.Buffer
	if err := formatter.WriteCards(&buf, cmd.String("school"), students); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %d card(s) to %s\n", len(students), path)
}

// StudentsHistory prints the books a student has borrowed, oldest first.
func (r *Runner) StudentsHistory(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	number, err := requireArg(cmd, "number")
	if err != nil {
		return err
	}
	st, err := lib.FindStudentByNumber(ctx, number)
	if err != nil {
		return err
	}
	books, err := lib.StudentHistory(ctx, number)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}

	r.writePlainHeader(st.Name + " (" + st.StudentNumber + ")")
	if len(books) == 0 {
		return r.writePlain("No books borrowed yet.\n")
	}
	for i, b := range books {
		if err := r.writePlain("%d. %s - %s\n", i+1, b.Author, b.Title); err != nil {
			return err
		}
	}
	return nil
}

// StudentsExport writes the roster to a file.
func (r *Runner) StudentsExport(ctx context.Context, cmd *cli.Command, lib *library.Store) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	students, err := lib.ListStudents(ctx)
	if err != nil {
		return err
	}
	data, err := formatter.ExportStudents(students, format)
	if err != nil {
		return err
	}
	path, err := formatter.WriteExport(data, cmd.String("output"), "students", format)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d student(s) to %s\n", len(students), path)
}
