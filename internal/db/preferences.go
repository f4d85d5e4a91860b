package db

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
)

// Settings keys for the preferences store.
const (
	KeyLastAddress    = "last_address"
	KeyCheckTimeoutMs = "check_timeout_ms"
)

// Default settings values.
var defaultSettings = map[string]string{
	KeyLastAddress:    "",
	KeyCheckTimeoutMs: strconv.Itoa(int(config.DefaultCheckTimeout.Milliseconds())),
}

// GetSetting retrieves a single setting value by key, returning the default if not set.
func (d *DB) GetSetting(key string) (string, error) {
	slog.Debug("getting setting", "key", key)

	var value string
	err := d.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if defVal, ok := defaultSettings[key]; ok {
			slog.Debug("setting not found, returning default", "key", key, "default", defVal)
			return defVal, nil
		}
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}

	return value, nil
}

// SetSetting upserts a setting key-value pair.
func (d *DB) SetSetting(key, value string) error {
	slog.Debug("setting value", "key", key, "value", value)

	_, err := d.conn.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}

	slog.Info("setting updated", "key", key)
	return nil
}

// GetPreferences loads the persisted convenience state, filling defaults for
// anything unset.
func (d *DB) GetPreferences() (*models.Preferences, error) {
	lastAddress, err := d.GetSetting(KeyLastAddress)
	if err != nil {
		return nil, err
	}

	timeoutStr, err := d.GetSetting(KeyCheckTimeoutMs)
	if err != nil {
		return nil, err
	}
	timeoutMs, err := strconv.Atoi(timeoutStr)
	if err != nil {
		slog.Warn("stored check timeout is not a number, using default",
			"value", timeoutStr,
		)
		timeoutMs = int(config.DefaultCheckTimeout.Milliseconds())
	}

	return &models.Preferences{
		LastAddress:    lastAddress,
		CheckTimeoutMs: timeoutMs,
	}, nil
}

// SetPreferences persists the convenience state.
func (d *DB) SetPreferences(prefs models.Preferences) error {
	if err := d.SetSetting(KeyLastAddress, prefs.LastAddress); err != nil {
		return err
	}
	if prefs.CheckTimeoutMs > 0 {
		if err := d.SetSetting(KeyCheckTimeoutMs, strconv.Itoa(prefs.CheckTimeoutMs)); err != nil {
			return err
		}
	}
	return nil
}
