package model

const (
	assetBase = "https://assets.ccbp.in/frontend/react-js/"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme is the dark/light flag every screen reads
type Theme struct {
	Dark bool `json:"dark"`
}

// Toggle flips the theme
func (t *Theme) Toggle() {
	t.Dark = !t.Dark
}

// Name returns "dark" or "light"
func (t Theme) Name() string {
	if t.Dark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) LogoURL() string {
	return assetBase + "nxt-watch-logo-" + t.Name() + "-theme-img.png"
}

func (t Theme) FailureImageURL() string {
	return assetBase + "nxt-watch-failure-view-" + t.Name() + "-theme-img.png"
}

func (t Theme) NoResultsImageURL() string {
	return assetBase + "nxt-watch-no-search-results-img.png"
}

func (t Theme) NoSavedVideosImageURL() string {
	return assetBase + "nxt-watch-no-saved-videos-img.png"
}

func (t Theme) NotFoundImageURL() string {
	return assetBase + "nxt-watch-not-found-" + t.Name() + "-theme-img.png"
}

// BannerLogoURL always uses the light logo; the banner background is light in both themes.
func (t Theme) BannerLogoURL() string {
	return assetBase + "nxt-watch-logo-light-theme-img.png"
}
