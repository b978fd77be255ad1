package services

import (
	"context"
	"eyesup/domain"
	"eyesup/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IPreferencesService is the CRUD surface of the keyword rules, the
// settings and the contacts.
type IPreferencesService interface {
	Keywords() []domain.KeywordRule
	ReplaceKeywords(ctx context.Context, rules []domain.KeywordRule) ([]domain.KeywordRule, error)
	AddKeywords(ctx context.Context, texts ...string) ([]domain.KeywordRule, error)
	DeleteKeyword(ctx context.Context, id uuid.UUID) error
	Settings() domain.Settings
	ReplaceSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
	Contacts(ctx context.Context) ([]domain.Contact, error)
	AddContact(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
}

type PreferencesService struct {
	keywords repositories.IKeywordRepository
	settings repositories.ISettingsRepository
	contacts repositories.IContactRepository
}

func NewPreferencesService(keywords repositories.IKeywordRepository, settings repositories.ISettingsRepository,
	contacts repositories.IContactRepository) *PreferencesService {
	return &PreferencesService{keywords: keywords, settings: settings, contacts: contacts}
}

func (s *PreferencesService) Keywords() []domain.KeywordRule {
	rules := s.keywords.List()
	if rules == nil {
		return []domain.KeywordRule{}
	}
	return rules
}

func (s *PreferencesService) ReplaceKeywords(ctx context.Context, rules []domain.KeywordRule) ([]domain.KeywordRule, error) {
	return s.keywords.Replace(ctx, rules)
}

// AddKeywords accepts plain texts or comma separated lists. New rules are active.
func (s *PreferencesService) AddKeywords(ctx context.Context, texts ...string) ([]domain.KeywordRule, error) {
	rules := lo.FlatMap(texts, func(text string, _ int) []domain.KeywordRule {
		return lo.Map(domain.SplitKeywords(text), func(word string, _ int) domain.KeywordRule {
			return domain.KeywordRule{Text: word, Active: true, Priority: domain.PriorityNormal}
		})
	})
	if len(rules) == 0 {
		return s.Keywords(), nil
	}
	return s.keywords.Add(ctx, rules...)
}

func (s *PreferencesService) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	return s.keywords.Delete(ctx, id)
}

func (s *PreferencesService) Settings() domain.Settings {
	return s.settings.Get()
}

func (s *PreferencesService) ReplaceSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := s.settings.Replace(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	return s.settings.Get(), nil
}

func (s *PreferencesService) Contacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (s *PreferencesService) AddContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	return s.contacts.Create(ctx, contact)
}

func (s *PreferencesService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return s.contacts.Delete(ctx, id)
}
