package browser

import (
	"fmt"
	"math/rand/v2"
)

// Profile is the fingerprint presented to the shop's scripts.
type Profile struct {
	Platform            string
	Language            string
	ViewportWidth       int
	ViewportHeight      int
	HardwareConcurrency int
	DeviceMemory        int
}

// DefaultProfile returns a desktop profile with a randomly picked viewport.
func DefaultProfile() *Profile {
	viewports := []struct{ w, h int }{
		{1920, 1080}, {1366, 768}, {1536, 864}, {1440, 900},
	}
	vp := viewports[rand.IntN(len(viewports))]

	return &Profile{
		Platform:            "Win32",
		Language:            "zh-CN",
		ViewportWidth:       vp.w,
		ViewportHeight:      vp.h,
		HardwareConcurrency: 4 + rand.IntN(9),
		DeviceMemory:        8,
	}
}

// WindowSize is the launcher flag value for the viewport.
func (p *Profile) WindowSize() string {
	return fmt.Sprintf("%d,%d", p.ViewportWidth, p.ViewportHeight)
}

// AcceptLanguage is the header value matching Language.
func (p *Profile) AcceptLanguage() string {
	return fmt.Sprintf("%s,zh;q=0.9,en;q=0.8", p.Language)
}

// Script returns the JavaScript evaluated in every new document before the
// page's own scripts. It hides the automation marker and patches the
// navigator properties go-rod/stealth leaves alone.
func (p *Profile) Script() string {
	return fmt.Sprintf(`
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'platform', { get: () => '%s' });
Object.defineProperty(navigator, 'language', { get: () => '%s' });
Object.defineProperty(navigator, 'languages', { get: () => ['%s', 'zh', 'en'] });
Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => %d });
Object.defineProperty(navigator, 'deviceMemory', { get: () => %d });

if (!window.chrome) {
	window.chrome = {
		runtime: { onMessage: { addListener: () => {} }, sendMessage: () => {} },
		loadTimes: () => ({}),
		csi: () => ({}),
	};
}

const originalQuery = window.navigator.permissions && window.navigator.permissions.query;
if (originalQuery) {
	window.navigator.permissions.query = (parameters) => (
		parameters.name === 'notifications' ?
			Promise.resolve({ state: Notification.permission }) :
			originalQuery(parameters)
	);
}
`, p.Platform, p.Language, p.Language, p.HardwareConcurrency, p.DeviceMemory)
}
