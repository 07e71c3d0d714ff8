package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/gaps/engine/core"
)

var keyTable = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyPrintScreen:  core.KEY_SNAPSHOT,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyLeftSuper:    core.KEY_LWIN,
	glfw.KeyRightSuper:   core.KEY_RWIN,
	glfw.KeyMenu:         core.KEY_APPS,
	glfw.KeyKP0:          core.KEY_NUMPAD0,
	glfw.KeyKP1:          core.KEY_NUMPAD1,
	glfw.KeyKP2:          core.KEY_NUMPAD2,
	glfw.KeyKP3:          core.KEY_NUMPAD3,
	glfw.KeyKP4:          core.KEY_NUMPAD4,
	glfw.KeyKP5:          core.KEY_NUMPAD5,
	glfw.KeyKP6:          core.KEY_NUMPAD6,
	glfw.KeyKP7:          core.KEY_NUMPAD7,
	glfw.KeyKP8:          core.KEY_NUMPAD8,
	glfw.KeyKP9:          core.KEY_NUMPAD9,
	glfw.KeyKPMultiply:   core.KEY_MULTIPLY,
	glfw.KeyKPAdd:        core.KEY_ADD,
	glfw.KeyKPSubtract:   core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:    core.KEY_DECIMAL,
	glfw.KeyKPDivide:     core.KEY_DIVIDE,
	glfw.KeyKPEqual:      core.KEY_NUMPAD_EQUAL,
	glfw.KeyF1:           core.KEY_F1,
	glfw.KeyF2:           core.KEY_F2,
	glfw.KeyF3:           core.KEY_F3,
	glfw.KeyF4:           core.KEY_F4,
	glfw.KeyF5:           core.KEY_F5,
	glfw.KeyF6:           core.KEY_F6,
	glfw.KeyF7:           core.KEY_F7,
	glfw.KeyF8:           core.KEY_F8,
	glfw.KeyF9:           core.KEY_F9,
	glfw.KeyF10:          core.KEY_F10,
	glfw.KeyF11:          core.KEY_F11,
	glfw.KeyF12:          core.KEY_F12,
	glfw.KeyF13:          core.KEY_F13,
	glfw.KeyF14:          core.KEY_F14,
	glfw.KeyF15:          core.KEY_F15,
	glfw.KeyF16:          core.KEY_F16,
	glfw.KeyF17:          core.KEY_F17,
	glfw.KeyF18:          core.KEY_F18,
	glfw.KeyF19:          core.KEY_F19,
	glfw.KeyF20:          core.KEY_F20,
	glfw.KeyF21:          core.KEY_F21,
	glfw.KeyF22:          core.KEY_F22,
	glfw.KeyF23:          core.KEY_F23,
	glfw.KeyF24:          core.KEY_F24,
	glfw.KeyNumLock:      core.KEY_NUMLOCK,
	glfw.KeyScrollLock:   core.KEY_SCROLL,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
	glfw.KeySemicolon:    core.KEY_SEMICOLON,
	glfw.KeyEqual:        core.KEY_PLUS,
	glfw.KeyComma:        core.KEY_COMMA,
	glfw.KeyMinus:        core.KEY_MINUS,
	glfw.KeyPeriod:       core.KEY_PERIOD,
	glfw.KeySlash:        core.KEY_SLASH,
	glfw.KeyGraveAccent:  core.KEY_GRAVE,
}

// TranslateKey maps a GLFW key to the engine key code. Letters and digits
// share their ASCII value in both tables.
func TranslateKey(key glfw.Key) (core.KeyCode, bool) {
	if (key >= glfw.KeyA && key <= glfw.KeyZ) || (key >= glfw.Key0 && key <= glfw.Key9) {
		return core.KeyCode(key), true
	}
	k, ok := keyTable[key]
	return k, ok
}

func TranslateButton(button glfw.MouseButton) (core.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return core.BUTTON_LEFT, true
	case glfw.MouseButtonRight:
		return core.BUTTON_RIGHT, true
	case glfw.MouseButtonMiddle:
		return core.BUTTON_MIDDLE, true
	default:
		return 0, false
	}
}
