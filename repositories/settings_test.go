package repositories

import (
	"context"
	"eyesup/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Settings_Default_When_Never_Saved(t *testing.T) {
	req := require.New(t)
	repository, err := NewSettingsRepository(openDB(t))
	req.NoError(err)
	req.Equal(domain.DefaultSettings(), repository.Get())
}

func Test_Settings_Replace_Survives_Reload(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository, err := NewSettingsRepository(db)
	req.NoError(err)

	// All flags off must not fall back to defaults on reload
	off := domain.Settings{}
	req.NoError(repository.Replace(context.Background(), off))
	req.Equal(off, repository.Get())

	reloaded, err := NewSettingsRepository(db)
	req.NoError(err)
	req.Equal(off, reloaded.Get())

	on := domain.Settings{AutoDetectDriving: true, BlockGroup: true, SpeakEmojis: true, AutoRead: true}
	req.NoError(reloaded.Replace(context.Background(), on))
	again, err := NewSettingsRepository(db)
	req.NoError(err)
	req.Equal(on, again.Get())
}
