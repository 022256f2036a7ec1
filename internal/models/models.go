// ABOUTME: Core data types for the local-to-remote post binding.
// ABOUTME: Defines OAuth1 credentials and the persisted post metadata document.
package models

// Credentials holds the OAuth1 key material for signing API requests.
// The resource owner pair is only present after a completed handshake.
type Credentials struct {
	ClientKey           string `json:"client_key,omitempty" yaml:"client_key"`
	ClientSecret        string `json:"client_secret,omitempty" yaml:"client_secret"`
	ResourceOwnerKey    string `json:"resource_owner_key,omitempty" yaml:"resource_owner_key"`
	ResourceOwnerSecret string `json:"resource_owner_secret,omitempty" yaml:"resource_owner_secret"`
}

// Complete returns true if all four credential fields are present.
func (c Credentials) Complete() bool {
	return c.ClientKey != "" && c.ClientSecret != "" &&
		c.ResourceOwnerKey != "" && c.ResourceOwnerSecret != ""
}

// HasClientPair returns true if the application key pair is present.
// That much is enough to start a handshake.
func (c Credentials) HasClientPair() bool {
	return c.ClientKey != "" && c.ClientSecret != ""
}

// Merge overlays o onto c, field by field. A value from o wins only when it is
// non-empty; an empty override never clears a stored value.
func (c Credentials) Merge(o Credentials) Credentials {
	if o.ClientKey != "" {
		c.ClientKey = o.ClientKey
	}
	if o.ClientSecret != "" {
		c.ClientSecret = o.ClientSecret
	}
	if o.ResourceOwnerKey != "" {
		c.ResourceOwnerKey = o.ResourceOwnerKey
	}
	if o.ResourceOwnerSecret != "" {
		c.ResourceOwnerSecret = o.ResourceOwnerSecret
	}
	return c
}

// Metadata is the persisted binding between the local document and its remote
// post. ID is nil until the first draft has been created. The server-echoed
// fields (slug, excerpt, featured_media, sticky, categories, tags) are refreshed
// after every confirmed publish.
type Metadata struct {
	ID            *int   `json:"id,omitempty"`
	Status        string `json:"status"`
	Author        int    `json:"author"`
	CommentStatus string `json:"comment_status"`
	PingStatus    string `json:"ping_status"`
	Format        string `json:"format"`
	Slug          string `json:"slug,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
	Sticky        bool   `json:"sticky,omitempty"`
	Categories    []int  `json:"categories,omitempty"`
	Tags          []int  `json:"tags,omitempty"`
}

// DefaultMetadata returns the metadata document written by init: an unbound
// draft posting as author 1 with comments and pings closed.
func DefaultMetadata() *Metadata {
	return &Metadata{
		Status:        "draft",
		Author:        1,
		CommentStatus: "closed",
		PingStatus:    "closed",
		Format:        "standard",
	}
}
