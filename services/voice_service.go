package services

import (
	"context"
	"eyesup/contract"
	"eyesup/domain"
	"eyesup/errors"
	"eyesup/notification"
	"eyesup/projection"
	"eyesup/runtime"
	"eyesup/voice"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

const readBackFallback = 3

type IVoiceService interface {
	Handle(ctx context.Context, transcript string) (VoiceResult, error)
}

// VoiceResult tells the client what happened. Show actions only carry the command.
type VoiceResult struct {
	Command  voice.Command    `json:"command"`
	Spoken   []string         `json:"spoken,omitempty"`
	Message  *domain.Message  `json:"message,omitempty"`
	Settings *domain.Settings `json:"settings,omitempty"`
}

type VoiceService struct {
	log      *slog.Logger
	pipeline *runtime.Pipeline
	store    contract.IMessageStore
	settings contract.ISettingsStore
	timeline *projection.Timeline
}

func NewVoiceService(log *slog.Logger, pipeline *runtime.Pipeline, store contract.IMessageStore,
	settings contract.ISettingsStore, timeline *projection.Timeline) *VoiceService {
	return &VoiceService{log: log, pipeline: pipeline, store: store, settings: settings, timeline: timeline}
}

func (s *VoiceService) Handle(ctx context.Context, transcript string) (VoiceResult, error) {
	cmd := voice.Interpret(transcript)
	s.log.Debug("Voice command", "action", cmd.Action)
	result := VoiceResult{Command: cmd}

	switch cmd.Action {
	case voice.ActionReply:
		last, err := s.lastInbound(ctx)
		if err != nil {
			return VoiceResult{}, err
		}
		res, err := s.pipeline.Reply(ctx, domain.ReplyCommand{To: last.From, Text: cmd.Text})
		if err != nil {
			return VoiceResult{}, err
		}
		result.Message = &res.Message
	case voice.ActionReadBack:
		spoken, err := s.readBack(ctx)
		if err != nil {
			return VoiceResult{}, err
		}
		result.Spoken = spoken
	case voice.ActionPauseAutoRead, voice.ActionResumeAutoRead:
		settings := s.settings.Get()
		settings.AutoRead = cmd.Action == voice.ActionResumeAutoRead
		if err := s.settings.Replace(ctx, settings); err != nil {
			return VoiceResult{}, err
		}
		result.Settings = &settings
	}
	return result, nil
}

// lastInbound reads the store rather than the timeline: the timeline is fed
// asynchronously and may lag behind, or miss, the latest ingestion.
func (s *VoiceService) lastInbound(ctx context.Context) (domain.Message, error) {
	var cursor *string
	for {
		page, next, err := s.store.Page(ctx, cursor)
		if err != nil {
			return domain.Message{}, err
		}
		if len(page) == 0 {
			return domain.Message{}, errors.Validation("no message to reply to")
		}
		if last, ok := lo.Find(page, func(m domain.Message) bool { return !m.Outgoing }); ok {
			return last, nil
		}
		if next == nil {
			return domain.Message{}, errors.Validation("no message to reply to")
		}
		cursor = next
	}
}

// readBack speaks the unread messages, or the latest stored inbound ones when
// everything has been heard already.
func (s *VoiceService) readBack(ctx context.Context) ([]string, error) {
	messages := s.timeline.TakeUnread()
	if len(messages) == 0 {
		page, _, err := s.store.Page(ctx, nil)
		if err != nil {
			return nil, err
		}
		inbound := lo.Filter(page, func(m domain.Message, _ int) bool { return !m.Outgoing })
		messages = lo.Slice(inbound, 0, readBackFallback)
		slices.Reverse(messages)
	}
	return lo.Map(messages, func(m domain.Message, _ int) string {
		return notification.RenderAnnouncement(m)
	}), nil
}
