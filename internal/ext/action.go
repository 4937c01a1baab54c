package ext

// Handler runs when an action is invoked. It records its effects on ctx;
// a returned error is reported as a failure toast.
type Handler func(ctx *Context) error

// ActionStyle changes how an action is presented.
type ActionStyle int

const (
	StyleRegular ActionStyle = iota
	StyleDestructive
)

// Action is one entry of an action panel. The first action of an item is its
// primary action and is also bound to enter.
type Action struct {
	Title    string
	Shortcut Shortcut
	Style    ActionStyle
	Run      Handler
}

// PushAction returns an action that pushes the view built by build.
func PushAction(title string, build ViewFunc) Action {
	return Action{
		Title: title,
		Run: func(ctx *Context) error {
			ctx.PushFunc(build, nil)
			return nil
		},
	}
}

// CopyAction returns an action that copies text to the clipboard and
// confirms with a HUD.
func CopyAction(title, text string) Action {
	return Action{
		Title:    title,
		Shortcut: Shortcut{Mods: ModAlt, Key: "c"},
		Run: func(ctx *Context) error {
			ctx.Copy(text)
			ctx.ShowHUD("Copied to clipboard")
			return nil
		},
	}
}

// OpenAction returns an action that opens target with the system opener.
func OpenAction(title, target string) Action {
	return Action{
		Title: title,
		Run: func(ctx *Context) error {
			ctx.Open(target)
			return nil
		},
	}
}

// ToastStyle selects toast presentation.
type ToastStyle int

const (
	ToastSuccess ToastStyle = iota
	ToastFailure
	ToastAnimated
)

func (s ToastStyle) String() string {
	switch s {
	case ToastFailure:
		return "failure"
	case ToastAnimated:
		return "animated"
	default:
		return "success"
	}
}

// Toast is a dismissible notification. Primary, when set, is invoked by
// enter while the toast is visible.
type Toast struct {
	Style   ToastStyle
	Title   string
	Message string
	Primary *Action
}

// Alert is a confirmation dialog.
type Alert struct {
	Title        string
	Message      string
	ConfirmTitle string
	Destructive  bool
	OnConfirm    Handler
	OnCancel     Handler
}
