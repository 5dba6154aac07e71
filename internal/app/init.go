package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/debug"
	"github.com/tacogips/dottmpl/internal/hook"
)

// InitOptions holds options for adding a job to a settings file.
type InitOptions struct {
	// SettingsFile is the file to create or update.
	SettingsFile string
	// Key is the dotted settings path of the descriptors.
	Key string
	// Job is the descriptor to append.
	Job hook.Job
}

// InitResult reports what Init wrote.
type InitResult struct {
	// SettingsFile is the resolved path written.
	SettingsFile string
	// Created is true when the file did not exist before.
	Created bool
	// JobCount is the number of descriptors under the key afterwards.
	JobCount int
}

// Init appends a job descriptor to a settings file, creating the file when
// needed. An existing single descriptor is turned into a sequence.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := opts.Job.Validate(); err != nil {
		return nil, NewInitError("incomplete template job", err)
	}
	if opts.Key == "" {
		opts.Key = config.DefaultSettingsKey
	}

	path, err := config.ExpandPath(opts.SettingsFile)
	if err != nil || path == "" {
		return nil, NewInitError("invalid settings path", err)
	}

	result := &InitResult{SettingsFile: path}

	settings, err := config.LoadSettings(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Type != config.ConfigNotFound {
			return nil, NewInitError("failed to load settings", err)
		}
		settings = config.NewSettings(nil)
		result.Created = true
	}

	var descriptors []interface{}
	if existing, ok := settings.Lookup(opts.Key); ok && existing != nil {
		switch v := existing.(type) {
		case []interface{}:
			descriptors = v
		case map[string]interface{}:
			descriptors = []interface{}{v}
		default:
			return nil, NewInitError(fmt.Sprintf("%s is not a template job or list of jobs", opts.Key), nil)
		}
	}
	descriptors = append(descriptors, descriptorOf(opts.Job))

	if err := settings.Set(opts.Key, descriptors); err != nil {
		return nil, NewInitError("failed to update settings", err)
	}
	if err := settings.Save(path); err != nil {
		return nil, NewInitError("failed to save settings", err)
	}

	result.JobCount = len(descriptors)
	debug.Named("app").Debug("wrote settings", "path", path, "jobs", result.JobCount)
	return result, nil
}

// descriptorOf converts a job to the generic shape stored in settings.
func descriptorOf(j hook.Job) map[string]interface{} {
	m := map[string]interface{}{}
	if j.Name != nil {
		m["name"] = *j.Name
	}
	if j.Event != "" {
		m["event"] = j.Event
	}
	if j.Input != nil {
		m["input"] = *j.Input
	}
	if j.Output != nil {
		m["output"] = *j.Output
	}
	m["vars"] = j.Vars
	return m
}
