package vcs

import (
	"github.com/go-git/go-git/v5/config"

	"github.com/krig/cargo-vendor/pkg/errors"
)

// identityFromConfig picks the commit identity from a git configuration,
// preferring author.* over user.*.
func identityFromConfig(cfg *config.Config) (*Identity, error) {
	id := &Identity{Name: cfg.User.Name, Email: cfg.User.Email}
	if cfg.Author.Name != "" {
		id.Name = cfg.Author.Name
	}
	if cfg.Author.Email != "" {
		id.Email = cfg.Author.Email
	}
	if id.Name == "" || id.Email == "" {
		return nil, errors.New(errors.ErrCodeRepositoryCommit,
			"no commit identity configured; set git user.name and user.email or pass an explicit author")
	}
	return id, nil
}

// ambientIdentity loads the identity from the system and global git
// configuration, for trees that are not git repositories.
func ambientIdentity() (*Identity, error) {
	merged := config.NewConfig()
	for _, scope := range []config.Scope{config.SystemScope, config.GlobalScope} {
		cfg, err := config.LoadConfig(scope)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRepositoryCommit, err, "load git configuration")
		}
		if cfg.User.Name != "" {
			merged.User.Name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			merged.User.Email = cfg.User.Email
		}
		if cfg.Author.Name != "" {
			merged.Author.Name = cfg.Author.Name
		}
		if cfg.Author.Email != "" {
			merged.Author.Email = cfg.Author.Email
		}
	}
	return identityFromConfig(merged)
}
