package game

import (
	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/session"
)

// Presenter receives state changes from the Controller. Calls arrive on
// whichever goroutine called Begin or Finish, never while the controller's
// lock is held.
type Presenter interface {
	RenderMood(score int)
	RenderHistory(history []session.Message)
	RenderOptions(options []dialogue.Option)
	ShowVictory()
}

// NopPresenter ignores every update.
type NopPresenter struct{}

func (NopPresenter) RenderMood(int)                  {}
func (NopPresenter) RenderHistory([]session.Message) {}
func (NopPresenter) RenderOptions([]dialogue.Option) {}
func (NopPresenter) ShowVictory()                    {}
