package segsearch

// pending records the update work left in one column of the matrix
type pending struct {
	classifiedRow    int
	revisitColumn    bool
	columnClassified bool
}

func newPending(n int) []pending {
	p := make([]pending, n)
	for i := range p {
		p[i].clear()
	}
	return p
}

// setBlobClassified marks cell (col,row) of the column as just classified
func (p *pending) setBlobClassified(row int) {
	p.classifiedRow = row
}

// setColumnClassified marks every cell of the column as just classified
func (p *pending) setColumnClassified() {
	p.columnClassified = true
}

// revisitWholeColumn asks for every cell of the column to be updated with
// the parents that changed
func (p *pending) revisitWholeColumn() {
	p.revisitColumn = true
}

func (p *pending) clear() {
	p.classifiedRow = -1
	p.revisitColumn = false
	p.columnClassified = false
}

func (p *pending) workToDo() bool {
	return p.revisitColumn || p.columnClassified || p.classifiedRow >= 0
}

// singleRow returns the only row to update, -1 when the whole column needs it
func (p *pending) singleRow() int {
	if p.revisitColumn || p.columnClassified {
		return -1
	}
	return p.classifiedRow
}

func (p *pending) isRowJustClassified(row int) bool {
	return p.columnClassified || row == p.classifiedRow
}
