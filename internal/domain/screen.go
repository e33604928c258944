package domain

// Screen is the page the client should display.
type Screen string

const (
	ScreenSplash     Screen = "splash"
	ScreenWelcome    Screen = "welcome"
	ScreenLibrary    Screen = "library"
	ScreenBookDetail Screen = "book_detail"
	ScreenCart       Screen = "cart"
	ScreenPayment    Screen = "payment"
)
