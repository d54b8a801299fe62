package config

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// DefaultBeachCities пляжные направления по умолчанию
var DefaultBeachCities = []string{
	"Rio de Janeiro",
	"Florianópolis",
	"Salvador",
	"Búzios",
	"Porto Seguro",
	"Fortaleza",
	"Natal",
	"Maceió",
	"Recife",
	"Ubatuba",
	"Arraial do Cabo",
	"Jericoacoara",
}

// DefaultMountainCities горные направления по умолчанию
var DefaultMountainCities = []string{
	"Campos do Jordão",
	"Gramado",
	"Canela",
	"Petrópolis",
	"Monte Verde",
	"Teresópolis",
	"Visconde de Mauá",
	"São Bento do Sapucaí",
}
