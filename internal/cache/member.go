package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cradoe/memberreg/internal/models"
)

// MemberCache keeps fully loaded member records (with children and parents)
// so repeated detail lookups skip the three database queries.
type MemberCache interface {
	GetMember(id int64) (*models.Person, bool, error)
	SetMember(person *models.Person) error
	DeleteMember(id int64) error
}

type MemberCacheImpl struct {
	cache *Cache
	ttl   time.Duration
}

func NewMemberCache(cache *Cache, ttl time.Duration) MemberCache {
	return &MemberCacheImpl{cache: cache, ttl: ttl}
}

func memberKey(id int64) string {
	return fmt.Sprintf("member:%d", id)
}

func (mc *MemberCacheImpl) GetMember(id int64) (*models.Person, bool, error) {
	raw, err := mc.cache.Get(memberKey(id))
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var person models.Person
	if err := json.Unmarshal([]byte(raw), &person); err != nil {
		return nil, false, err
	}

	return &person, true, nil
}

func (mc *MemberCacheImpl) SetMember(person *models.Person) error {
	raw, err := json.Marshal(person)
	if err != nil {
		return err
	}

	return mc.cache.Set(memberKey(person.ID), string(raw), mc.ttl)
}

func (mc *MemberCacheImpl) DeleteMember(id int64) error {
	return mc.cache.Delete(memberKey(id))
}
