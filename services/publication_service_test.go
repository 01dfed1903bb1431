package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"school-results-api/models"
)

func TestPublishRefusesWhilePending(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	year := createCalendar(t, db, 1)
	exam := createExam(t, db, year, 1)

	const pending = 3
	for i := 0; i < pending; i++ {
		createResult(t, db, i+1, exam.ExamID, 1, models.ResultStatusPending, 10)
	}
	createResult(t, db, 10, exam.ExamID, 1, models.ResultStatusApproved, 10)

	_, err := svc.PublishExam(exam.ExamID, time.Now(), "", 40)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	// The refusal must tell the office exactly how much is left.
	if !strings.Contains(err.Error(), fmt.Sprintf("%d results are still pending", pending)) {
		t.Fatalf("refusal message %q does not carry the pending count", err.Error())
	}
}

func TestPublishRefusesWithNothingApproved(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	year := createCalendar(t, db, 1)
	exam := createExam(t, db, year, 1)
	createResult(t, db, 1, exam.ExamID, 1, models.ResultStatusRejected, 10)

	_, err := svc.PublishExam(exam.ExamID, time.Now(), "", 40)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// The rejected result must stay unpublishable no matter what.
	var reloaded models.Result
	db.Where("exam_id = ?", exam.ExamID).First(&reloaded)
	if reloaded.IsPublished {
		t.Fatal("rejected result was published")
	}
}

func TestPublishRequiresDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	year := createCalendar(t, db, 1)
	exam := createExam(t, db, year, 1)
	createResult(t, db, 1, exam.ExamID, 1, models.ResultStatusApproved, 10)

	if _, err := svc.PublishExam(exam.ExamID, time.Time{}, "", 40); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestPublishUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	if _, err := svc.PublishExam(9999, time.Now(), "", 40); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPublishFlipsApprovedOnlyAndUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	year := createCalendar(t, db, 1)
	exam := createExam(t, db, year, 1)

	approvedA := createResult(t, db, 1, exam.ExamID, 1, models.ResultStatusApproved, 10)
	approvedB := createResult(t, db, 2, exam.ExamID, 1, models.ResultStatusApproved, 10)
	rejected := createResult(t, db, 3, exam.ExamID, 1, models.ResultStatusRejected, 10)

	publication, err := svc.PublishExam(exam.ExamID, time.Now(), "first run", 40)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if publication.ApprovedCount != 2 || publication.RejectedCount != 1 || publication.TotalResults != 3 {
		t.Fatalf("snapshot counts = %d/%d/%d, want 2 approved, 1 rejected, 3 total",
			publication.ApprovedCount, publication.RejectedCount, publication.TotalResults)
	}

	for _, id := range []int{approvedA.ResultID, approvedB.ResultID} {
		var r models.Result
		db.First(&r, id)
		if !r.IsPublished {
			t.Fatalf("approved result %d not published", id)
		}
		if r.ApprovalStatus != models.ResultStatusApproved {
			t.Fatalf("published result %d has status %q", id, r.ApprovalStatus)
		}
	}
	var r models.Result
	db.First(&r, rejected.ResultID)
	if r.IsPublished {
		t.Fatal("rejected result was published")
	}

	// Re-publishing updates the existing row, never duplicates it.
	later := time.Now().AddDate(0, 0, 1)
	if _, err := svc.PublishExam(exam.ExamID, later, "second run", 40); err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	var rows int64
	db.Model(&models.ResultPublication{}).Where("exam_id = ?", exam.ExamID).Count(&rows)
	if rows != 1 {
		t.Fatalf("publication rows = %d, want 1", rows)
	}

	info, err := svc.PublicationInfo(exam.ExamID)
	if err != nil {
		t.Fatalf("publication info: %v", err)
	}
	if info.Notes != "second run" {
		t.Fatalf("notes = %q, want the refreshed snapshot", info.Notes)
	}

	published, err := svc.IsPublished(exam.ExamID)
	if err != nil || !published {
		t.Fatalf("IsPublished = %v, %v; want true, nil", published, err)
	}
}

func TestPublishedResultsScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	yearA := createCalendar(t, db, 2)
	yearB := createCalendar(t, db, 2)
	examA := createExam(t, db, yearA, 1)
	examB := createExam(t, db, yearA, 1)
	examC := createExam(t, db, yearB, 1)

	createResult(t, db, 1, examA.ExamID, 1, models.ResultStatusApproved, 10)
	createResult(t, db, 1, examB.ExamID, 1, models.ResultStatusApproved, 10)
	createResult(t, db, 1, examC.ExamID, 1, models.ResultStatusApproved, 10)
	for _, examID := range []int{examA.ExamID, examB.ExamID, examC.ExamID} {
		if _, err := svc.PublishExam(examID, time.Now(), "", 40); err != nil {
			t.Fatalf("publish exam %d: %v", examID, err)
		}
	}

	all, err := svc.PublishedResults(1, nil, nil)
	if err != nil {
		t.Fatalf("published results: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unscoped results = %d, want 3", len(all))
	}

	byExam, err := svc.PublishedResults(1, &examA.ExamID, nil)
	if err != nil {
		t.Fatalf("exam-scoped results: %v", err)
	}
	if len(byExam) != 1 || byExam[0].ExamID != examA.ExamID {
		t.Fatalf("exam-scoped results = %v, want only exam %d", byExam, examA.ExamID)
	}

	byYear, err := svc.PublishedResults(1, nil, &yearA.AcademicYearID)
	if err != nil {
		t.Fatalf("year-scoped results: %v", err)
	}
	if len(byYear) != 2 {
		t.Fatalf("year-scoped results = %d, want 2", len(byYear))
	}
	for _, r := range byYear {
		if r.ExamID == examC.ExamID {
			t.Fatalf("year scope leaked exam %d of another academic year", examC.ExamID)
		}
	}
}

func TestIsPublishedFalseWithoutPublication(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	published, err := svc.IsPublished(12345)
	if err != nil {
		t.Fatalf("IsPublished: %v", err)
	}
	if published {
		t.Fatal("exam without publication row reported as published")
	}
}
