package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/domain/models"
	"dashboard-api/internal/logger"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// VisitorFinder is the scoped lookup a badge is rendered from.
type VisitorFinder interface {
	FindOne(ctx context.Context, id domain.ID, user domain.UserContext) (*models.Visitor, error)
}

// BadgeService renders printable visitor badges.
type BadgeService struct {
	Visitors VisitorFinder
	Logger   *zap.Logger
	Now      func() time.Time
}

// Generate returns the PDF bytes and a download filename. Visitors outside the
// caller's scope are reported as not found.
func (s BadgeService) Generate(ctx context.Context, id domain.ID, user domain.UserContext) ([]byte, string, error) {
	v, err := s.Visitors.FindOne(ctx, id, user)
	if err != nil {
		return nil, "", err
	}
	if v == nil {
		return nil, "", domain.NotFoundError{Resource: "visitor"}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	pdf, name, err := buildBadgePDF(*v, now())
	if err != nil {
		return nil, "", domain.InternalError{Msg: "cannot render badge", Err: err}
	}
	logger.From(ctx, s.Logger).Info("visitor badge generated",
		logger.Entity("visitor"), logger.ID(v.ID), logger.UserID(user.Subject))
	return pdf, name, nil
}

func buildBadgePDF(v models.Visitor, printedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetTitle("Visitor Badge", false)
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()
	// Core fonts are cp1252; translate so accented names render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	org := "-"
	if v.Organization != nil {
		org = safe(v.Organization.Name, "-")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tr(org), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "VISITOR", "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, tr(safe(v.FullName, "-")), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Purpose    : %s", safe(v.Purpose, "-")),
		fmt.Sprintf("Host       : %s", safe(v.HostName, "-")),
		fmt.Sprintf("Department : #%d", v.DepartmentID),
		fmt.Sprintf("Checked in : %s", v.CheckedInAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Badge no   : VIS-%06d", v.ID),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, tr(l))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Wear this badge visibly and return it at the front desk when leaving. Printed "+
		printedAt.Format("2006-01-02 15:04")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("BADGE_%d_%s.pdf", v.ID, safeFilenamePart(v.FullName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if r := []rune(s); len(r) > 40 {
		s = string(r[:40])
	}
	return s
}
