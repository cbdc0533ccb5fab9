package dashboard

func (d *DashboardScreen) handleFlashcardKey(key string) {
	switch key {
	case "space", "enter":
		d.deck.ToggleFlip()
	case "right", "l":
		d.deck.Next()
	case "left", "h":
		d.deck.Previous()
	}
}

func (d *DashboardScreen) handleQuizKey(key string) {
	q := d.quiz
	if q.Completed {
		if key == "r" {
			q.Retake()
		}
		return
	}

	switch key {
	case "up", "k":
		if q.Selected > 0 {
			q.Select(q.Selected - 1)
		}
	case "down", "j":
		q.Select(q.Selected + 1)
	case "enter":
		if q.Submitted {
			q.Advance()
		} else {
			q.Submit()
		}
	default:
		if n, ok := digit(key); ok {
			q.Select(n - 1)
		}
	}
}
