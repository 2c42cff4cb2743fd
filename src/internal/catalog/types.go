package catalog

// Kind tells whether an entry is a plain link or a reverse-proxied service.
type Kind string

const (
	// KindLink is an address that is already publicly reachable.
	KindLink Kind = "link"
	// KindService is an internal service published through a reverse proxy.
	KindService Kind = "service"
)

// ImportedCategory is the category given to every entry created by the import pipeline.
const ImportedCategory = "Imported"

// DefaultAppName is used when neither the data file nor the configuration names the dashboard.
const DefaultAppName = "Service Dashboard"

// ProxyTarget describes how a service is published by the reverse proxy.
type ProxyTarget struct {
	// Target is the internal address requests are forwarded to (scheme://host[:port]).
	Target           string `json:"target" yaml:"target" validate:"required"`
	EnableSSL        bool   `json:"enableSsl" yaml:"enableSsl"`
	SSLCertPath      string `json:"sslCertPath" yaml:"sslCertPath"`
	SSLKeyPath       string `json:"sslKeyPath" yaml:"sslKeyPath"`
	EnableWebSockets bool   `json:"enableWebSockets" yaml:"enableWebSockets"`
}

// Entry is a unit shown on the dashboard.
type Entry struct {
	// ID is assigned by the Store on creation and never reassigned.
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title" validate:"required"`
	// URL is the public address and the catalog-wide uniqueness key.
	// It is compared byte for byte, without normalization.
	URL         string `json:"url" yaml:"url" validate:"required"`
	Description string `json:"description" yaml:"description"`
	// Icon is an optional embedded image (usually a data: URL).
	Icon     *string `json:"icon" yaml:"icon,omitempty"`
	Kind     Kind    `json:"type" yaml:"type" validate:"required,oneof=link service"`
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	// ProxyTarget is only set for services.
	ProxyTarget *ProxyTarget `json:"proxyConfig,omitempty" yaml:"proxyConfig,omitempty" validate:"omitempty"`
}

// Candidate is an entry recovered from configuration text that has not been
// merged into the catalog yet. It has no identity and no kind.
type Candidate struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Icon        *string `json:"icon"`
	// Upstream is the proxied address the candidate was detected with.
	Upstream string `json:"-"`
}

// Promotion carries the fields a Candidate receives when it becomes an Entry.
type Promotion struct {
	Kind     Kind
	Enabled  bool
	Category string
	// Proxy overrides the proxy settings derived from the candidate. Ignored for links.
	Proxy *ProxyTarget
}

// ImportPromotion is the promotion applied to every imported candidate.
func ImportPromotion() Promotion {
	return Promotion{
		Kind:     KindService,
		Enabled:  true,
		Category: ImportedCategory,
	}
}

// Promote turns a candidate into a catalog entry. The ID stays empty until the
// entry is added to a Store.
func Promote(c Candidate, p Promotion) Entry {
	e := Entry{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Icon:        c.Icon,
		Kind:        p.Kind,
		Enabled:     p.Enabled,
		Category:    p.Category,
	}
	if p.Kind == KindService {
		if p.Proxy != nil {
			proxy := *p.Proxy
			e.ProxyTarget = &proxy
		} else {
			e.ProxyTarget = &ProxyTarget{Target: c.Upstream}
		}
	}
	return e
}

// Patch is a partial update of an entry. Nil fields are left untouched.
// A non-nil Icon pointing to an empty string removes the icon.
type Patch struct {
	Title       *string
	URL         *string
	Description *string
	Icon        *string
	Kind        *Kind
	Enabled     *bool
	Category    *string
	ProxyTarget *ProxyTarget
}

// FullPatch builds a patch that replaces every editable field with e's values.
func FullPatch(e Entry) Patch {
	icon := ""
	if e.Icon != nil {
		icon = *e.Icon
	}
	return Patch{
		Title:       &e.Title,
		URL:         &e.URL,
		Description: &e.Description,
		Icon:        &icon,
		Kind:        &e.Kind,
		Enabled:     &e.Enabled,
		Category:    &e.Category,
		ProxyTarget: e.ProxyTarget,
	}
}

func (p Patch) apply(e Entry) Entry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Icon != nil {
		if *p.Icon == "" {
			e.Icon = nil
		} else {
			icon := *p.Icon
			e.Icon = &icon
		}
	}
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.Enabled != nil {
		e.Enabled = *p.Enabled
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.ProxyTarget != nil {
		proxy := *p.ProxyTarget
		e.ProxyTarget = &proxy
	}
	if e.Kind == KindLink {
		e.ProxyTarget = nil
	}
	return e
}

// Snapshot is the persisted form of the catalog.
type Snapshot struct {
	AppName string  `json:"appName" yaml:"appName"`
	Links   []Entry `json:"links" yaml:"links"`
}

// Stats summarizes the catalog the way the dashboard status cards show it.
type Stats struct {
	ActiveServices int `json:"activeServices"`
	ActiveLinks    int `json:"activeLinks"`
	Online         int `json:"online"`
	Offline        int `json:"offline"`
	Total          int `json:"total"`
}
