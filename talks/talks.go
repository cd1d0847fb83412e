package talks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/talkboard/validation"
)

const MaxTitleLength = 128

type Service interface {
	CreateTalk(ctx context.Context, req CreateTalkRequest) (*Talk, error)
	GetTalk(ctx context.Context, id string) (*Talk, error)
	ListTalks(ctx context.Context, params ListTalksParams) ([]*Talk, error)
	AddSpeakers(ctx context.Context, talkID string, speakerIDs ...string) error
	DeleteTalk(ctx context.Context, id string) error
}

// Manager enforces the talk creation rule on top of a TalkRepository.
type Manager struct {
	talkRepo TalkRepository
}

var _ Service = (*Manager)(nil)

func NewManager(talkRepo TalkRepository) *Manager {
	return &Manager{
		talkRepo: talkRepo,
	}
}

type CreateTalkRequest struct {
	Title       string `validate:"max=128"`
	Remark      string
	Description string
	Order       int16
	SectionID   string
	SpeakerIDs  []string
}

func (mgr *Manager) CreateTalk(ctx context.Context, req CreateTalkRequest) (*Talk, error) {
	speakerIDs := uniqueIDs(req.SpeakerIDs)
	if len(speakerIDs) == 0 {
		return nil, validation.NewError("SpeakerIDs", "at least one speaker required")
	}

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	var sectionID *string
	if req.SectionID != "" {
		sectionID = &req.SectionID
	}

	talk := &Talk{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Remark:      req.Remark,
		Description: req.Description,
		Order:       req.Order,
		SpeakerIDs:  speakerIDs,
		SectionID:   sectionID,
	}

	err = mgr.talkRepo.Insert(ctx, talk)
	if err != nil {
		return nil, fmt.Errorf("failed to insert talk: %w", err)
	}

	slog.DebugContext(ctx, "talk created", "talkID", talk.ID, "speakers", len(talk.SpeakerIDs))

	return talk, nil
}

func (mgr *Manager) GetTalk(ctx context.Context, id string) (*Talk, error) {
	talk, err := mgr.talkRepo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find talk: %w", err)
	}

	return talk, nil
}

func (mgr *Manager) ListTalks(ctx context.Context, params ListTalksParams) ([]*Talk, error) {
	talks, err := mgr.talkRepo.List(ctx, &params)
	if err != nil {
		return nil, fmt.Errorf("failed to list talks: %w", err)
	}

	return talks, nil
}

// AddSpeakers attaches more speakers to an existing talk. Speakers already
// attached are left as they are.
func (mgr *Manager) AddSpeakers(ctx context.Context, talkID string, speakerIDs ...string) error {
	speakerIDs = uniqueIDs(speakerIDs)
	if len(speakerIDs) == 0 {
		return nil
	}

	err := mgr.talkRepo.AddSpeakers(ctx, talkID, speakerIDs)
	if err != nil {
		return fmt.Errorf("failed to add speakers: %w", err)
	}

	return nil
}

func (mgr *Manager) DeleteTalk(ctx context.Context, id string) error {
	err := mgr.talkRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete talk: %w", err)
	}

	return nil
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}

		result = append(result, id)
	}

	return result
}
