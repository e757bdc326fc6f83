package router

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// DefaultVersion is assumed when the request does not ask for one.
const DefaultVersion = "v1"

// BaseVersionNamespace is used for versions with no dedicated namespace.
const BaseVersionNamespace = "Base"

// Versioning resolves versioned resource names from the request's Accept header
// (application/vnd.<tree>.<version>+json).
type Versioning struct {
	// Namespace is the root namespace of resources, e.g. `App\Http\Transformers`.
	Namespace string
	// Supported maps an API version to its namespace segment, e.g. "v1" -> "V1".
	Supported map[string]string
}

// Version returns the version requested by r, or DefaultVersion.
func (v Versioning) Version(r *http.Request) string {
	for accept := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(accept))
		if err != nil {
			continue
		}
		_, subtype, ok := strings.Cut(mediaType, "/")
		if !ok || !strings.HasPrefix(subtype, "vnd.") {
			continue
		}
		subtype, _, _ = strings.Cut(subtype, "+")
		parts := strings.Split(subtype, ".")
		if len(parts) >= 3 && parts[len(parts)-1] != "" {
			return parts[len(parts)-1]
		}
	}
	return DefaultVersion
}

// VersionNamespace maps the requested version to its namespace segment.
func (v Versioning) VersionNamespace(r *http.Request) string {
	if ns, ok := v.Supported[v.Version(r)]; ok {
		return ns
	}
	return BaseVersionNamespace
}

// ResourceName builds `<Namespace>\<group>\<version>\<Class>` for name, where
// dots in name become namespace separators ("user.profile" -> `user\profile`).
func (v Versioning) ResourceName(r *http.Request, group, name string) string {
	class := strings.ReplaceAll(name, ".", `\`)
	return fmt.Sprintf(`%s\%s\%s\%s`, v.Namespace, group, v.VersionNamespace(r), class)
}
