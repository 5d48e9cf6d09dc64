// Package service holds the account and todo business rules on top of the
// persistence layer.
package service

import (
	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/cache"
	"github.com/hpnchanel/todoapi/internal/repository"
)

var (
	_ UserRepository = (*repository.Repository)(nil)
	_ TodoRepository = (*repository.Repository)(nil)
	_ SessionCache   = (*cache.Cache)(nil)
	_ PasswordHasher = (*auth.Hasher)(nil)
	_ TokenService   = (*auth.TokenService)(nil)
)
