package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/leadhook/leadhook/pkg/logging"
)

type recordingNotifier struct {
	captured []*Lead
}

func (n *recordingNotifier) LeadCaptured(ctx context.Context, lead *Lead) {
	n.captured = append(n.captured, lead)
}

func TestServiceCaptureNotifies(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil, logging.Default())

	lead, err := svc.Capture(context.Background(), &CreateLeadRequest{
		AccountID:   42,
		ContactName: "Jane",
		Source:      SourceFacebookLeadAd,
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(notifier.captured) != 1 || notifier.captured[0].ID != lead.ID {
		t.Fatalf("expected one notification for lead %s", lead.ID)
	}
}

func TestServiceCaptureDuplicatePassthrough(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil, logging.Default())

	req := &CreateLeadRequest{
		AccountID:      42,
		Source:         SourceFacebookLeadAd,
		ExternalLeadID: "L1",
	}
	if _, err := svc.Capture(context.Background(), req); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	_, err := svc.Capture(context.Background(), req)
	if !errors.Is(err, ErrDuplicateLead) {
		t.Fatalf("expected ErrDuplicateLead, got %v", err)
	}
	if len(notifier.captured) != 1 {
		t.Fatalf("duplicate must not notify, got %d notifications", len(notifier.captured))
	}
}
