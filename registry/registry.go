// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the targets that may receive stake.
package registry

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/capacity/kv"
	"github.com/vechain/capacity/thor"
)

var ErrAlreadyRegistered = errors.New("target already registered")

// Provider describes a registered target.
type Provider struct {
	Name         string
	Owner        thor.Address
	RegisteredAt uint32
}

// Entry pairs a target id with its provider.
type Entry struct {
	ID       thor.TargetID
	Provider *Provider
}

// Registry stores providers keyed by target id.
type Registry struct {
	store kv.Store
}

func New(store kv.Store) *Registry {
	return &Registry{store: store}
}

func (r *Registry) Get(id thor.TargetID) (*Provider, error) {
	data, err := r.store.Get(id.Bytes())
	if err != nil {
		if r.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get target")
	}
	var p Provider
	if err := rlp.DecodeBytes(data, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode target")
	}
	return &p, nil
}

// IsValidTarget reports whether id is registered.
func (r *Registry) IsValidTarget(id thor.TargetID) (bool, error) {
	has, err := r.store.Has(id.Bytes())
	if err != nil {
		return false, errors.Wrap(err, "failed to check target")
	}
	return has, nil
}

func (r *Registry) Register(id thor.TargetID, p *Provider) error {
	exists, err := r.IsValidTarget(id)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyRegistered
	}
	data, err := rlp.EncodeToBytes(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode target")
	}
	return r.store.Put(id.Bytes(), data)
}

// List returns every registered target in id order.
func (r *Registry) List() ([]*Entry, error) {
	iter := r.store.Iterate(kv.Range{})
	defer iter.Release()

	var entries []*Entry
	for iter.Next() {
		var p Provider
		if err := rlp.DecodeBytes(iter.Value(), &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode target")
		}
		entries = append(entries, &Entry{ID: thor.BytesToTargetID(iter.Key()), Provider: &p})
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate targets")
	}
	return entries, nil
}
