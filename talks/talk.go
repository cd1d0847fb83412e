package talks

import (
	"context"
	"fmt"
)

type Talk struct {
	ID          string
	Title       string
	Remark      string
	Description string
	Order       int16
	SpeakerIDs  []string
	SectionID   *string
}

type TalkRepository interface {
	// Insert stores talk together with its speakers atomically.
	Insert(ctx context.Context, talk *Talk) (err error)
	Find(ctx context.Context, id string) (talk *Talk, err error)
	List(ctx context.Context, params *ListTalksParams) (talks []*Talk, err error)
	AddSpeakers(ctx context.Context, talkID string, speakerIDs []string) (err error)
	Delete(ctx context.Context, id string) (err error)
}

type ListTalksParams struct {
	SectionID string
}

type TalkNotFoundError struct {
	ID string
}

func (err TalkNotFoundError) Error() string {
	return fmt.Sprintf("talk with id %q not found", err.ID)
}
