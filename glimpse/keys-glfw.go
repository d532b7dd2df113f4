//go:build !js

package glimpse

import "github.com/go-gl/glfw/v3.3/glfw"

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyEscape:    KeyEscape,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeySpace:     KeySpace,
	glfw.KeyTab:       KeyTab,
	glfw.KeyBackspace: KeyBackspace,
	glfw.KeyLeft:      KeyLeft,
	glfw.KeyRight:     KeyRight,
	glfw.KeyUp:        KeyUp,
	glfw.KeyDown:      KeyDown,
	glfw.KeyF1:        KeyF1,
	glfw.KeyF2:        KeyF2,
	glfw.KeyF3:        KeyF3,
	glfw.KeyF4:        KeyF4,
	glfw.KeyF5:        KeyF5,
	glfw.KeyF6:        KeyF6,
	glfw.KeyF7:        KeyF7,
	glfw.KeyF8:        KeyF8,
	glfw.KeyF9:        KeyF9,
	glfw.KeyF10:       KeyF10,
	glfw.KeyF11:       KeyF11,
	glfw.KeyF12:       KeyF12,
}
