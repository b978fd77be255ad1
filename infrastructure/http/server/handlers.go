package server

import (
	"bytes"
	"encoding/json"
	"eyesup/domain"
	"eyesup/errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *RelayServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.authService.Login(req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: string(token)})
}

func (s *RelayServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.monitoring.GetLatest())
}

func (s *RelayServer) incoming(w http.ResponseWriter, r *http.Request) {
	var cmd domain.IncomingCommand
	if err := decode(w, r, &cmd); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.relay.Incoming(r.Context(), cmd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *RelayServer) reply(w http.ResponseWriter, r *http.Request) {
	var cmd domain.ReplyCommand
	if err := decode(w, r, &cmd); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.relay.Reply(r.Context(), cmd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *RelayServer) simulate(w http.ResponseWriter, r *http.Request) {
	result, err := s.relay.Simulate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *RelayServer) messages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.relay.Messages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *RelayServer) page(w http.ResponseWriter, r *http.Request) {
	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = lo.ToPtr(raw)
	}
	page, err := s.relay.Page(r.Context(), cursor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *RelayServer) search(w http.ResponseWriter, r *http.Request) {
	result, err := s.relay.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *RelayServer) keywords(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.preferences.Keywords())
}

func (s *RelayServer) replaceKeywords(w http.ResponseWriter, r *http.Request) {
	var rules []domain.KeywordRule
	if err := decode(w, r, &rules); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.preferences.ReplaceKeywords(r.Context(), rules)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type keywordInput struct {
	Text string `json:"text"`
}

// addKeywords accepts either a list of {text} objects or a single {text}
// holding a comma separated list.
func (s *RelayServer) addKeywords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, r, errors.Validation("unreadable body"))
		return
	}
	var inputs []keywordInput
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &inputs)
	} else {
		var single keywordInput
		err = json.Unmarshal(trimmed, &single)
		inputs = []keywordInput{single}
	}
	if err != nil {
		s.fail(w, r, errors.Validation("malformed json body"))
		return
	}
	texts := lo.Map(inputs, func(in keywordInput, _ int) string { return in.Text })
	saved, err := s.preferences.AddKeywords(r.Context(), texts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *RelayServer) deleteKeyword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.preferences.DeleteKeyword(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *RelayServer) settings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.preferences.Settings())
}

func (s *RelayServer) replaceSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decode(w, r, &settings); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.preferences.ReplaceSettings(r.Context(), settings)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *RelayServer) contacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.preferences.Contacts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *RelayServer) addContact(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if err := decode(w, r, &contact); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.preferences.AddContact(r.Context(), contact)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *RelayServer) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.preferences.DeleteContact(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
}

func (s *RelayServer) handleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.voice.Handle(r.Context(), req.Transcript)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.Validation("invalid id")
	}
	return id, nil
}
