package identity

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// linkedinNormalizer pide el perfil como documento XML estructurado y lo
// baja a los mismos campos canónicos. El country code, si viene, es el locale.
type linkedinNormalizer struct{}

const linkedinProfilePath = "people/~:(id,first-name,last-name,email-address,location)"

func (linkedinNormalizer) Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error) {
	raw, err := src.Get(ctx, linkedinProfilePath)
	if err != nil {
		return nil, fmt.Errorf("identity: linkedin profile: %w", err)
	}
	return parseLinkedInProfile(raw)
}

func parseLinkedInProfile(raw []byte) (*Identity, error) {
	var p struct {
		XMLName      xml.Name `xml:"person"`
		ID           string   `xml:"id"`
		FirstName    string   `xml:"first-name"`
		LastName     string   `xml:"last-name"`
		EmailAddress string   `xml:"email-address"`
		Location     struct {
			Country struct {
				Code string `xml:"code"`
			} `xml:"country"`
		} `xml:"location"`
	}
	if err := xml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("identity: linkedin profile: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("identity: linkedin profile without id")
	}

	return &Identity{
		ExternalID: p.ID,
		FullName:   strings.TrimSpace(p.FirstName + " " + p.LastName),
		Email:      p.EmailAddress,
		Locale:     p.Location.Country.Code,
	}, nil
}
