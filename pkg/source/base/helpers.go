// Lectern: A library and CLI for extracting novel catalogs and chapter indexes.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package base

import (
	"net/url"
	"strings"

	"Lectern/pkg/core"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
)

// BuildHeaders returns the User-Agent and Referer most sites require. The
// agent is the adapter's own, else the one the engine's client was
// configured with.
func (p *Provider) BuildHeaders() network.Headers {
	ua := p.config.UserAgent
	if ua == "" && p.engine != nil {
		ua = p.engine.Client(p.config.Client).UserAgent()
	}
	if ua == "" {
		ua = network.DefaultUserAgent
	}
	return network.Headers{
		"User-Agent": ua,
		"Referer":    p.config.BaseURL + "/",
	}
}

func (p *Provider) headers() network.Headers {
	if hb, ok := p.adapter.(HeaderBuilder); ok {
		return hb.BuildHeaders()
	}
	return p.BuildHeaders()
}

// Get builds a GET request for ref resolved against the base URL
func (p *Provider) Get(ref string) *network.Request {
	return network.NewRequest(p.AbsURL(ref)).
		Headers(p.headers()).
		Build()
}

// PostForm builds a form POST request for ref
func (p *Provider) PostForm(ref string, values url.Values) *network.Request {
	return network.NewRequest(p.AbsURL(ref)).
		Headers(p.headers()).
		Form(values).
		Build()
}

// DetailsRequest fetches the novel page itself
func (p *Provider) DetailsRequest(novel *core.Novel) (*network.Request, error) {
	return p.Get(novel.URL), nil
}

// ChapterListRequest fetches the novel page itself
func (p *Provider) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	return p.Get(novel.URL), nil
}

// SearchRequest is the fallback for sites without search
func (p *Provider) SearchRequest(int, string, source.FilterList) (*network.Request, error) {
	return nil, errors.Track(errors.ErrMissingImplementation).
		WithMessagef("%s does not support search", p.config.Name).
		Error()
}

// AbsURL resolves ref against the base URL
func (p *Provider) AbsURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if p.base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(u.Path, "/") && u.Host == "" {
		// relative paths hang off the site root
		u.Path = "/" + u.Path
	}
	return p.base.ResolveReference(u).String()
}

// URLWithoutDomain keeps path, query and fragment of an absolute URL on
// the site's own host. Other hosts and unparsable input come back as is.
func (p *Provider) URLWithoutDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || p.base == nil {
		return raw
	}
	if !strings.EqualFold(u.Hostname(), p.base.Hostname()) {
		return raw
	}

	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}

// RequireExternalID returns the novel's external id, or a missing-id
// error telling the caller to fetch details first
func RequireExternalID(novel *core.Novel) (string, error) {
	if id, ok := novel.ExternalID(); ok {
		return id, nil
	}
	return "", errors.Track(errors.ErrMissingExternalID).
		WithContext("novel_url", novel.URL).
		WithMessage("External novel id is not resolved; fetch the novel details first").
		Error()
}

// NotUsed is returned by hooks a site never calls
func NotUsed(hook string) error {
	return errors.Track(errors.ErrNotUsed).
		WithContext("hook", hook).
		Error()
}
