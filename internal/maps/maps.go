// Package maps expands Google Maps short links into embeddable URLs by
// following the redirect and pulling the place id, coordinates and place
// name out of the expanded URL.
package maps

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	placeIDRe   = regexp.MustCompile(`(0x[0-9a-f]+:0x[0-9a-f]+)`)
	coordsRe    = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	placeNameRe = regexp.MustCompile(`/place/([^/]+)`)
)

// viewport distance that frames a stadium nicely
const embedDistance = 6000

// IsMapsURL reports whether the link looks like a Google Maps URL at all.
func IsMapsURL(link string) bool {
	return strings.Contains(link, "maps.app.goo.gl") || strings.Contains(link, "google.com/maps")
}

type Resolver struct {
	client *resty.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

// EmbedURL follows the short link's redirect chain and builds the embed URL
// from the expanded one.
func (r *Resolver) EmbedURL(ctx context.Context, shortURL string) (string, error) {
	resp, err := r.client.R().SetContext(ctx).Get(shortURL)
	if err != nil {
		return "", fmt.Errorf("expanding short url: %w", err)
	}

	fullURL := shortURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		fullURL = raw.Request.URL.String()
	}

	return buildEmbedURL(fullURL)
}

func buildEmbedURL(fullURL string) (string, error) {
	placeID := placeIDRe.FindString(fullURL)
	if placeID == "" {
		return "", fmt.Errorf("no place id in expanded url %q", fullURL)
	}

	coords := coordsRe.FindStringSubmatch(fullURL)
	if coords == nil {
		return "", fmt.Errorf("no coordinates in expanded url %q", fullURL)
	}
	lat, lon := coords[1], coords[2]

	placePart := ""
	if m := placeNameRe.FindStringSubmatch(fullURL); m != nil {
		name, err := url.PathUnescape(m[1])
		if err != nil {
			name = m[1]
		}
		name = strings.ReplaceAll(name, "+", " ")
		placePart = "!2s" + url.PathEscape(name)
	}

	embed := fmt.Sprintf(
		"https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d%d!"+
			"2d%s!3d%s!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!"+
			"3m3!1m2!1s%s%s!5e0!3m2!1sen!2sfr",
		embedDistance, lon, lat, placeID, placePart,
	)
	return embed, nil
}
