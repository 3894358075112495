package services

import (
	"strings"

	"github.com/minzhangphoto/portfolio/pkg/models"
)

var absolutePrefixes = []string{"http://", "https://", "//", "data:", "blob:"}

type ImageURLResolverConfig struct {
	BaseOrigin string
}

/*
ImageURLResolver turns a possibly-relative image path into something a
browser can request. It never fails: empty in, empty out.
*/
type ImageURLResolver struct {
	baseOrigin string
}

func NewImageURLResolver(config ImageURLResolverConfig) ImageURLResolver {
	return ImageURLResolver{
		baseOrigin: strings.TrimRight(config.BaseOrigin, "/"),
	}
}

func (r ImageURLResolver) Resolve(path string) string {
	if path == "" {
		return ""
	}

	if IsAbsoluteURL(path) {
		return path
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return r.baseOrigin + path
}

func (r ImageURLResolver) ResolveImage(image models.Image) string {
	return r.Resolve(image.Path)
}

func IsAbsoluteURL(path string) bool {
	lower := strings.ToLower(path)

	for _, prefix := range absolutePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return false
}
