package app

// paneWidths returns the content widths of the hunk list and the hunk body.
// Each visible pane carries a left and right border.
func paneWidths(totalWidth int, desiredLeft int, hideLeft bool) (int, int) {
	if hideLeft {
		available := totalWidth - 2
		if available < 1 {
			return 0, 1
		}
		return 0, available
	}

	available := totalWidth - 4
	if available < 2 {
		return 1, 1
	}

	left := desiredLeft
	if left < 1 {
		left = 1
	}
	// The body keeps at least a third of the screen.
	if maxLeft := available - max(1, available/3); left > maxLeft {
		left = maxLeft
	}
	if left < 1 {
		left = 1
	}
	return left, available - left
}

// listWindow returns the first visible row so that cursor stays inside a
// window of height rows starting at scroll.
func listWindow(cursor, scroll, height, total int) int {
	if height < 1 || total <= height {
		return 0
	}
	if cursor < scroll {
		scroll = cursor
	}
	if cursor >= scroll+height {
		scroll = cursor - height + 1
	}
	if scroll > total-height {
		scroll = total - height
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
