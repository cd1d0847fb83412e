package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nasermirzaei89/talkboard/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]string

func (src mapSource) Lookup(key string) (string, bool) {
	value, ok := src[key]

	return value, ok
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      settings.Source
		expected settings.Settings
	}{
		{
			name:     "unavailable source",
			src:      nil,
			expected: settings.Settings{UserEntityRef: "account.User", SectionEntityRef: "section.Section"},
		},
		{
			name:     "keys absent",
			src:      mapSource{"OTHER": "x"},
			expected: settings.Settings{UserEntityRef: "account.User", SectionEntityRef: "section.Section"},
		},
		{
			name:     "user override",
			src:      mapSource{"AUTH_USER_MODEL": "people.Member"},
			expected: settings.Settings{UserEntityRef: "people.Member", SectionEntityRef: "section.Section"},
		},
		{
			name: "both overridden",
			src: mapSource{
				"AUTH_USER_MODEL": "people.Member",
				"SECTION_MODEL":   "agenda.Track",
			},
			expected: settings.Settings{UserEntityRef: "people.Member", SectionEntityRef: "agenda.Track"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, settings.Resolve(tt.src))
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := settings.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, settings.ErrSourceUnavailable)
	})

	t.Run("empty path is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := settings.LoadFile("")
		require.ErrorIs(t, err, settings.ErrSourceUnavailable)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("AUTH_USER_MODEL: [unterminated"), 0o600))

		_, err := settings.LoadFile(path)
		require.Error(t, err)
		require.NotErrorIs(t, err, settings.ErrSourceUnavailable)
	})

	t.Run("defined keys", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("SECTION_MODEL: agenda.Track\n"), 0o600))

		src, err := settings.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, settings.Settings{
			UserEntityRef:    "account.User",
			SectionEntityRef: "agenda.Track",
		}, settings.Resolve(src))
	})

	t.Run("unrelated nested keys are ignored", func(t *testing.T) {
		t.Parallel()

		content := "AUTH_USER_MODEL: people.Person\n" +
			"DATABASES:\n" +
			"  default:\n" +
			"    NAME: x\n" +
			"INSTALLED_APPS:\n" +
			"  - talks\n"

		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		src, err := settings.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, settings.Settings{
			UserEntityRef:    "people.Person",
			SectionEntityRef: "section.Section",
		}, settings.Resolve(src))
	})

	t.Run("non string value falls back to default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("SECTION_MODEL:\n  app: agenda\n"), 0o600))

		src, err := settings.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, settings.Defaults(), settings.Resolve(src))
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_USER_MODEL: people.Member\nSECTION_MODEL: agenda.Track\n"), 0o600))

	t.Setenv("AUTH_USER_MODEL", "")
	t.Setenv("SECTION_MODEL", "rooms.Room")

	resolved, err := settings.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "people.Member", resolved.UserEntityRef)
	assert.Equal(t, "rooms.Room", resolved.SectionEntityRef)

	resolved, err = settings.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "account.User", resolved.UserEntityRef)
	assert.Equal(t, "rooms.Room", resolved.SectionEntityRef)
}

func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref      string
		expected string
		wantErr  bool
	}{
		{ref: "account.User", expected: "account_user"},
		{ref: "section.Section", expected: "section_section"},
		{ref: "agenda.TalkTrack", expected: "agenda_talktrack"},
		{ref: "User", wantErr: true},
		{ref: "account.", wantErr: true},
		{ref: "account.User; DROP TABLE talks", wantErr: true},
		{ref: "a.b.c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()

			table, err := settings.TableName(tt.ref)
			if tt.wantErr {
				invalidErr := &settings.InvalidEntityRefError{}
				require.ErrorAs(t, err, &invalidErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, table)
		})
	}
}
