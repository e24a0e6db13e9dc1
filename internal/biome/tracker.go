package biome

// ChangeObserver получает уведомление о смене биома
type ChangeObserver interface {
	OnBiomeChanged(prev, next Biome)
}

// ChangeFunc адаптер функции к ChangeObserver
type ChangeFunc func(prev, next Biome)

func (f ChangeFunc) OnBiomeChanged(prev, next Biome) { f(prev, next) }

// Tracker запоминает последний биом движущейся точки (камеры, сущности)
// и уведомляет наблюдателя только при его смене. Сама классификация
// остаётся чистой функцией. Tracker не потокобезопасен.
type Tracker struct {
	classifier *Classifier
	observer   ChangeObserver
	current    Biome
	known      bool
}

// NewTracker создаёт трекер; observer может быть nil
func NewTracker(c *Classifier, observer ChangeObserver) *Tracker {
	return &Tracker{classifier: c, observer: observer}
}

// Update классифицирует точку и возвращает биом и признак смены.
// Первое обновление только заполняет кэш и не считается сменой.
func (t *Tracker) Update(height, temperature, humidity float64) (Biome, bool) {
	next := t.classifier.Classify(height, temperature, humidity)
	if !t.known {
		t.current = next
		t.known = true
		return next, false
	}
	if next == t.current {
		return next, false
	}

	prev := t.current
	t.current = next
	if t.observer != nil {
		t.observer.OnBiomeChanged(prev, next)
	}
	return next, true
}

// Current возвращает последний известный биом
func (t *Tracker) Current() (Biome, bool) {
	return t.current, t.known
}

// Reset очищает кэш
func (t *Tracker) Reset() {
	t.current = Default
	t.known = false
}
