package port

// App is the set of ports an application exposes to its host. A nil field
// means the application does not declare that port.
type App struct {
	SaveToStorage     *Port[string]
	LoadFromStorage   *Port[Unit]
	LoadedFromStorage *Port[string]
}

// Ports lets an *App serve as its own host handle.
func (a *App) Ports() *App {
	return a
}

// NewApp creates the ports whose names are non-empty, all scheduled on loop.
func NewApp(loop *Loop, save, loadRequest, loadResponse string) *App {
	app := &App{}
	if save != "" {
		app.SaveToStorage = New[string](loop, save)
	}
	if loadRequest != "" {
		app.LoadFromStorage = New[Unit](loop, loadRequest)
	}
	if loadResponse != "" {
		app.LoadedFromStorage = New[string](loop, loadResponse)
	}
	return app
}
