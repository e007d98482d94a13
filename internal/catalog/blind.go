package catalog

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/shaiso/Skymixer/internal/domain"
)

// blindPhrase — фиксированная кодовая фраза, из которой выводится
// blinding-множитель. Преобразование не зависит от запуска: один и тот же
// множитель применяется ко всем каталогам, пока фраза не раскрыта.
const blindPhrase = "two points for honesty"

// BlindFactor возвращает детерминированный множитель в диапазоне (0.9, 1.0].
//
// Множитель выводится из хэша кодовой фразы, поэтому его значение
// нельзя узнать, не зная фразу, но оно воспроизводимо бит-в-бит.
func BlindFactor() float64 {
	h := sha256.Sum256([]byte(blindPhrase))
	v := binary.BigEndian.Uint64(h[:8])
	return 0.9 + 0.1*float64(v%1000000)/1000000
}

// BlindRows умножает перечисленные поля каждой строки на blinding-множитель.
//
// Применяется до того, как каталог коснётся диска. Поля, отсутствующие
// в строке, пропускаются; значения-заполнители (DefVal) не блайндятся,
// чтобы их можно было распознать после преобразования.
func BlindRows(rows []Row, fields []string) {
	factor := BlindFactor()
	for i := range rows {
		for _, name := range fields {
			val, ok := rows[i].Fields[name]
			if !ok || val == domain.DefVal || val == domain.PDefVal {
				continue
			}
			rows[i].Fields[name] = val * factor
		}
	}
}
