package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"school-results-api/models"
)

func TestGenerateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	student := createStudent(t, db, 1)

	pin, err := svc.Generate(student.StudentID, PinScope{}, 0, 0, 40)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pin.MaxChecks != DefaultPinMaxChecks {
		t.Fatalf("max_checks = %d, want default %d", pin.MaxChecks, DefaultPinMaxChecks)
	}
	if pin.UsedChecks != 0 {
		t.Fatalf("used_checks = %d, want 0", pin.UsedChecks)
	}
	wantExpiry := time.Now().AddDate(0, 0, DefaultPinValidDays)
	if pin.ExpiresAt.Before(wantExpiry.Add(-time.Hour)) || pin.ExpiresAt.After(wantExpiry.Add(time.Hour)) {
		t.Fatalf("expires_at = %v, want about %v", pin.ExpiresAt, wantExpiry)
	}
	if len(pin.PinCode) != 19 { // XXXX-XXXX-XXXX-XXXX
		t.Fatalf("pin code %q has unexpected shape", pin.PinCode)
	}
}

func TestGenerateUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	if _, err := svc.Generate(9999, PinScope{}, 0, 0, 40); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBulkGenerateByClass(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	createStudent(t, db, 1)
	createStudent(t, db, 1)
	createStudent(t, db, 2)

	classID := 1
	pins, err := svc.BulkGenerate(&classID, PinScope{}, 0, 0, 40)
	if err != nil {
		t.Fatalf("bulk generate: %v", err)
	}
	if len(pins) != 2 {
		t.Fatalf("pins = %d, want 2 (class scoped)", len(pins))
	}

	all, err := svc.BulkGenerate(nil, PinScope{}, 0, 0, 40)
	if err != nil {
		t.Fatalf("bulk generate all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("pins = %d, want 3 (all students)", len(all))
	}
}

func TestConsumeCheckSpendsExactlyMaxChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	student := createStudent(t, db, 1)
	pin, err := svc.Generate(student.StudentID, PinScope{}, 3, 30, 40)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for i := 0; i < 3; i++ {
		outcome, err := svc.ConsumeCheck(pin.PinCode, student.StudentID)
		if err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if outcome.RemainingChecks != 2-i {
			t.Fatalf("check %d remaining = %d, want %d", i+1, outcome.RemainingChecks, 2-i)
		}
	}

	_, err = svc.ConsumeCheck(pin.PinCode, student.StudentID)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("fourth check err = %v, want ErrExhausted", err)
	}
	if err.Error() != ErrPinRejected.Error() {
		t.Fatalf("exhaustion message %q differs from the generic rejection", err.Error())
	}
}

func TestConsumeCheckCollapsesFailureCauses(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	student := createStudent(t, db, 1)
	pin, err := svc.Generate(student.StudentID, PinScope{}, 5, 30, 40)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Wrong code, wrong student, expired: all the same message.
	if _, err := svc.ConsumeCheck("NO-SUCH-CODE", student.StudentID); err == nil || err.Error() != ErrPinRejected.Error() {
		t.Fatalf("wrong code err = %v, want the generic rejection", err)
	}
	if _, err := svc.ConsumeCheck(pin.PinCode, student.StudentID+1); err == nil || err.Error() != ErrPinRejected.Error() {
		t.Fatalf("wrong student err = %v, want the generic rejection", err)
	}

	db.Model(&models.ResultPin{}).Where("pin_id = ?", pin.PinID).
		Update("expires_at", time.Now().Add(-time.Minute))
	if _, err := svc.ConsumeCheck(pin.PinCode, student.StudentID); err == nil || err.Error() != ErrPinRejected.Error() {
		t.Fatalf("expired err = %v, want the generic rejection", err)
	}

	// None of the failures may burn a check.
	var reloaded models.ResultPin
	db.First(&reloaded, pin.PinID)
	if reloaded.UsedChecks != 0 {
		t.Fatalf("used_checks = %d after failed attempts, want 0", reloaded.UsedChecks)
	}
}

func TestConcurrentConsumeAllowsSingleSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewPinService(db)

	student := createStudent(t, db, 1)
	pin, err := svc.Generate(student.StudentID, PinScope{}, 1, 30, 40)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	const attempts = 20
	var successes int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.ConsumeCheck(pin.PinCode, student.StudentID); err == nil {
				atomic.AddInt64(&successes, 1)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1 on a max_checks=1 pin", successes)
	}

	var reloaded models.ResultPin
	db.First(&reloaded, pin.PinID)
	if reloaded.UsedChecks != 1 {
		t.Fatalf("used_checks = %d, want 1", reloaded.UsedChecks)
	}
}

func TestConsumeCheckReturnsScopedPublishedResults(t *testing.T) {
	db := newTestDB(t)
	pins := NewPinService(db)
	publications := NewPublicationService(db)

	student := createStudent(t, db, 1)
	yearA := createCalendar(t, db, 2)
	yearB := createCalendar(t, db, 2)
	examA := createExam(t, db, yearA, 1)
	examB := createExam(t, db, yearA, 1)
	examC := createExam(t, db, yearB, 1)

	createResult(t, db, student.StudentID, examA.ExamID, 1, models.ResultStatusApproved, 10)
	createResult(t, db, student.StudentID, examB.ExamID, 1, models.ResultStatusApproved, 10)
	createResult(t, db, student.StudentID, examC.ExamID, 1, models.ResultStatusApproved, 10)
	for _, examID := range []int{examA.ExamID, examB.ExamID, examC.ExamID} {
		if _, err := publications.PublishExam(examID, time.Now(), "", 40); err != nil {
			t.Fatalf("publish exam %d: %v", examID, err)
		}
	}

	examPin, err := pins.Generate(student.StudentID, PinScope{ExamID: &examA.ExamID}, 5, 30, 40)
	if err != nil {
		t.Fatalf("generate exam pin: %v", err)
	}

	outcome, err := pins.ConsumeCheck(examPin.PinCode, student.StudentID)
	if err != nil {
		t.Fatalf("consume exam pin: %v", err)
	}
	if len(outcome.Results) != 1 || outcome.Results[0].ExamID != examA.ExamID {
		t.Fatalf("results = %d rows, want only exam %d", len(outcome.Results), examA.ExamID)
	}
	if outcome.RemainingChecks != 4 {
		t.Fatalf("remaining = %d, want 4", outcome.RemainingChecks)
	}

	// A year-scoped code must never show another year's exams.
	yearPin, err := pins.Generate(student.StudentID, PinScope{AcademicYearID: &yearA.AcademicYearID}, 5, 30, 40)
	if err != nil {
		t.Fatalf("generate year pin: %v", err)
	}

	outcome, err = pins.ConsumeCheck(yearPin.PinCode, student.StudentID)
	if err != nil {
		t.Fatalf("consume year pin: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %d rows, want the 2 exams of year %d", len(outcome.Results), yearA.AcademicYearID)
	}
	for _, r := range outcome.Results {
		if r.ExamID == examC.ExamID {
			t.Fatalf("year-scoped check returned exam %d of another academic year", examC.ExamID)
		}
	}
}
