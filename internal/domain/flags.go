package domain

// Битовые флаги строки каталога.
//
// Младшие биты — ошибки кодов фитирования, старшие — причины,
// по которым объект не фитировался вовсе.
const (
	// FlagPSFFitFailure — не сошёлся фит PSF.
	FlagPSFFitFailure int64 = 1 << 0

	// FlagGalFitFailure — не сошёлся фит модели галактики.
	FlagGalFitFailure int64 = 1 << 1

	// FlagPSFFluxFailure — не сошёлся фит потока PSF.
	FlagPSFFluxFailure int64 = 1 << 2

	// FlagLowPSFFlux — поток PSF ниже порога.
	FlagLowPSFFlux int64 = 1 << 3

	// FlagBadObject — объект помечен как плохой во входных флагах.
	FlagBadObject int64 = 1 << 25

	// FlagImageFlags — вырезки объекта забракованы по флагам изображений.
	FlagImageFlags int64 = 1 << 26

	// FlagNoCutouts — у объекта нет вырезок.
	FlagNoCutouts int64 = 1 << 27

	// FlagUtterFailure — фит упал неатрибутируемым образом.
	FlagUtterFailure int64 = 1 << 29

	// FlagNoAttempt — фитирование не запускалось.
	FlagNoAttempt int64 = 1 << 30
)

// Значения-заполнители для нефитированных величин.
const (
	// DefVal — значение по умолчанию для неопределённых величин.
	DefVal float64 = -9999

	// PDefVal — положительный аналог DefVal (для величин вроде ошибок).
	PDefVal float64 = 9999
)
