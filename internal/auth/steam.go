package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	steamLoginEndpoint = "https://steamcommunity.com/openid/login"
	steamClaimedIDBase = "https://steamcommunity.com/openid/id/"

	openidNS               = "http://specs.openid.net/auth/2.0"
	openidIdentifierSelect = "http://specs.openid.net/auth/2.0/identifier_select"

	// SteamID64Base is the base of Valve's individual-account namespace.
	// Subtracting it from a SteamID64 yields the compact account number.
	SteamID64Base uint64 = 76561197960265728
)

var ErrVerificationFailed = errors.New("openid verification failed")

// SteamOpenID is an OpenID 2.0 consumer for Steam's identity provider. It
// builds the provider redirect URL and verifies signed callbacks via the
// check_authentication flow.
type SteamOpenID struct {
	realm    string
	returnTo string
	endpoint string
	client   *http.Client
}

// NewSteamOpenID creates a consumer for the given realm and return path.
// The return path may be a fragment route such as "#/steam_auth".
func NewSteamOpenID(realm, returnPath string) *SteamOpenID {
	return &SteamOpenID{
		realm:    realm,
		returnTo: strings.TrimSuffix(realm, "/") + "/" + strings.TrimPrefix(returnPath, "/"),
		endpoint: steamLoginEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// RedirectURL returns the provider authorization URL the user agent should
// be sent to.
func (s *SteamOpenID) RedirectURL() string {
	params := url.Values{
		"openid.ns":         {openidNS},
		"openid.mode":       {"checkid_setup"},
		"openid.identity":   {openidIdentifierSelect},
		"openid.claimed_id": {openidIdentifierSelect},
		"openid.realm":      {s.realm},
		"openid.return_to":  {s.returnTo},
	}
	return s.endpoint + "?" + params.Encode()
}

// Verify validates a provider callback by re-posting its parameters with
// mode check_authentication. On success it returns the SteamID64 parsed
// from the claimed id.
func (s *SteamOpenID) Verify(ctx context.Context, callback url.Values) (uint64, error) {
	if callback.Get("openid.mode") != "id_res" {
		return 0, ErrVerificationFailed
	}
	claimed := callback.Get("openid.claimed_id")
	if !strings.HasPrefix(claimed, steamClaimedIDBase) {
		return 0, ErrVerificationFailed
	}
	steamID, err := strconv.ParseUint(strings.TrimPrefix(claimed, steamClaimedIDBase), 10, 64)
	if err != nil {
		return 0, ErrVerificationFailed
	}

	params := url.Values{}
	for key, values := range callback {
		params[key] = values
	}
	params.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return 0, fmt.Errorf("building verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("querying openid provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrVerificationFailed
	}

	// The provider answers in key:value line format
	valid := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "is_valid:true" {
			valid = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading provider response: %w", err)
	}
	if !valid {
		return 0, ErrVerificationFailed
	}
	return steamID, nil
}

// UserIDFromSteamID64 converts a SteamID64 into the compact account number
// used across the schema. IDs at or below the namespace base are invalid.
func UserIDFromSteamID64(steamID uint64) (uint64, error) {
	if steamID <= SteamID64Base {
		return 0, fmt.Errorf("steamid64 %d is not an individual account id", steamID)
	}
	return steamID - SteamID64Base, nil
}
