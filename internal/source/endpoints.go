// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package source

import (
	"net/url"
	"strings"
)

// Endpoints locates the upstream resources.
type Endpoints interface {
	// IndexURLs returns the primary and fallback index URLs. Fallback may be "".
	IndexURLs() (primary, fallback string)
	// MetaURLs returns the primary and fallback metadata URLs. Fallback may be "".
	MetaURLs() (primary, fallback string)
	// DetailURL returns the URL of one event's detail record.
	DetailURL(id string) string
}

// StaticEndpoints serves resources from a static host with a mirror fallback.
type StaticEndpoints struct {
	PrimaryBase string
	MirrorBase  string
}

// IndexURLs implements Endpoints.
func (e StaticEndpoints) IndexURLs() (string, string) {
	return join(e.PrimaryBase, "events_index.json"), join(e.MirrorBase, "events_index.json")
}

// MetaURLs implements Endpoints.
func (e StaticEndpoints) MetaURLs() (string, string) {
	return join(e.PrimaryBase, "meta.json"), join(e.MirrorBase, "meta.json")
}

// DetailURL implements Endpoints.
func (e StaticEndpoints) DetailURL(id string) string {
	return join(e.PrimaryBase, "events/"+url.PathEscape(id)+".json")
}

// LegacyEndpoints serves resources from the RPC backend. When MirrorBase is
// set, the static mirror acts as fallback for index and metadata.
type LegacyEndpoints struct {
	RPCURL     string
	MirrorBase string
}

// IndexURLs implements Endpoints.
func (e LegacyEndpoints) IndexURLs() (string, string) {
	return rpc(e.RPCURL, "index", ""), join(e.MirrorBase, "events_index.json")
}

// MetaURLs implements Endpoints.
func (e LegacyEndpoints) MetaURLs() (string, string) {
	return rpc(e.RPCURL, "meta", ""), join(e.MirrorBase, "meta.json")
}

// DetailURL implements Endpoints.
func (e LegacyEndpoints) DetailURL(id string) string {
	return rpc(e.RPCURL, "event", id)
}

// join appends name to base with exactly one slash. An empty base yields "".
func join(base, name string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + name
}

// rpc builds a legacy RPC URL, preserving any query the base already has.
func rpc(base, typ, id string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("type", typ)
	if id != "" {
		q.Set("id", id)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
