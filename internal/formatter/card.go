package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/libratech/internal/models"
)

// CardWidth is the inner width of a printed library card.
const CardWidth = 36

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Width(CardWidth)
	cardTitle = lipgloss.NewStyle().Bold(true)
	cardMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// CardPayload returns the value encoded in a student's card QR code.
func CardPayload(s models.Student) string {
	return s.StudentNumber
}

// LibraryCard renders a printable card for s.
func LibraryCard(school string, s models.Student) string {
	if school == "" {
		school = "Library Card"
	}

	lines := []string{
		cardTitle.Render(strings.ToUpper(school)),
		"",
		s.Name,
		fmt.Sprintf("No: %s", s.StudentNumber),
	}
	if s.Grade != "" {
		lines = append(lines, fmt.Sprintf("Grade: %s", s.Grade))
	}
	lines = append(lines, "", cardMuted.Render(fmt.Sprintf("QR: %s", CardPayload(s))))

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// WriteCards renders one card per student to w, separated by blank lines.
func WriteCards(w io.Writer, school string, students []models.Student) error {
	for i, s := range students {
		sep := "\n"
		if i < len(students)-1 {
			sep = "\n\n"
		}
		if _, err := io.WriteString(w, LibraryCard(school, s)+sep); err != nil {
			return fmt.Errorf("failed to write card for %s: %w", s.StudentNumber, err)
		}
	}
	return nil
}
