package georender

import "regexp"

// CaptchaMode selects how the service handles CAPTCHA challenges.
type CaptchaMode string

// Supported CAPTCHA modes. The service defaults to CaptchaDisabled.
const (
	CaptchaDisabled    CaptchaMode = "disabled"
	CaptchaAuto        CaptchaMode = "auto"
	CaptchaRecaptchaV2 CaptchaMode = "recaptcha_v2"
	CaptchaRecaptchaV3 CaptchaMode = "recaptcha_v3"
	CaptchaTurnstile   CaptchaMode = "turnstile"
)

// ScreenshotFormat is the image encoding of a captured screenshot.
type ScreenshotFormat string

// Supported screenshot formats.
const (
	ScreenshotPNG  ScreenshotFormat = "png"
	ScreenshotJPEG ScreenshotFormat = "jpeg"
	ScreenshotWebP ScreenshotFormat = "webp"
)

// Limits documented by the service. They are checked by Validate only.
const (
	MaxFetchURLs   = 10
	MaxWaitActions = 10
)

// Options holds the rendering directives for a job.
//
// Every field is optional. A nil pointer or nil slice means the caller did
// not set the field and it is left out of the request entirely, so the
// service applies its own default. Use Ptr to set scalar fields.
type Options struct {
	// CountryCode is an ISO 3166-1 alpha-2 code selecting the exit country.
	CountryCode *string

	// City is a lowercase dot-separated slug, e.g. "us.new-york".
	City *string

	// FetchURLs are additional URLs fetched within the rendered page session.
	FetchURLs []string

	// WaitFor lists actions the service performs before capturing the page.
	WaitFor []WaitAction

	Captcha     *CaptchaMode
	BlockImages *bool

	IncludeScreenshot  *bool
	ScreenshotFormat   *ScreenshotFormat
	ScreenshotQuality  *int
	ScreenshotFullPage *bool
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Payload builds the request body for creating a render of url.
// Only fields that are set on o appear in the result. A nil receiver
// yields a payload with just the URL.
func (o *Options) Payload(url string) map[string]any {
	payload := map[string]any{"url": url}
	if o == nil {
		return payload
	}

	if o.CountryCode != nil {
		payload["countryCode"] = *o.CountryCode
	}
	if o.City != nil {
		payload["city"] = *o.City
	}
	if o.FetchURLs != nil {
		payload["fetchUrls"] = o.FetchURLs
	}
	if o.WaitFor != nil {
		payload["waitFor"] = o.WaitFor
	}
	if o.Captcha != nil {
		payload["captcha"] = *o.Captcha
	}
	if o.BlockImages != nil {
		payload["blockImages"] = *o.BlockImages
	}

	// Screenshot keys are independent of each other.
	if o.IncludeScreenshot != nil {
		payload["includeScreenshot"] = *o.IncludeScreenshot
	}
	if o.ScreenshotFormat != nil {
		payload["screenshotFormat"] = *o.ScreenshotFormat
	}
	if o.ScreenshotQuality != nil {
		payload["screenshotQuality"] = *o.ScreenshotQuality
	}
	if o.ScreenshotFullPage != nil {
		payload["screenshotFullPage"] = *o.ScreenshotFullPage
	}

	return payload
}

var (
	countryCodeRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
	citySlugRe    = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)*$`)
)

// Validate returns an error if a set field is outside the range documented
// by the service. The service remains authoritative; Payload never calls this.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}

	if o.CountryCode != nil && !countryCodeRe.MatchString(*o.CountryCode) {
		return Errorf(EINVALID, "country code %q must be two letters", *o.CountryCode)
	}
	if o.City != nil && !citySlugRe.MatchString(*o.City) {
		return Errorf(EINVALID, "city %q must be a lowercase dot-separated slug", *o.City)
	}
	if len(o.FetchURLs) > MaxFetchURLs {
		return Errorf(EINVALID, "at most %d fetch URLs allowed, got %d", MaxFetchURLs, len(o.FetchURLs))
	}
	if len(o.WaitFor) > MaxWaitActions {
		return Errorf(EINVALID, "at most %d wait actions allowed, got %d", MaxWaitActions, len(o.WaitFor))
	}
	for i, action := range o.WaitFor {
		if err := action.Validate(); err != nil {
			return Errorf(EINVALID, "wait action %d: %s", i, ErrorMessage(err))
		}
	}
	if o.Captcha != nil {
		switch *o.Captcha {
		case CaptchaDisabled, CaptchaAuto, CaptchaRecaptchaV2, CaptchaRecaptchaV3, CaptchaTurnstile:
		default:
			return Errorf(EINVALID, "unknown captcha mode %q", *o.Captcha)
		}
	}
	if o.ScreenshotFormat != nil {
		switch *o.ScreenshotFormat {
		case ScreenshotPNG, ScreenshotJPEG, ScreenshotWebP:
		default:
			return Errorf(EINVALID, "unknown screenshot format %q", *o.ScreenshotFormat)
		}
	}
	if o.ScreenshotQuality != nil && (*o.ScreenshotQuality < 1 || *o.ScreenshotQuality > 100) {
		return Errorf(EINVALID, "screenshot quality must be between 1 and 100, got %d", *o.ScreenshotQuality)
	}
	return nil
}
