// Command seedref loads a small development dataset into the reference
// store: a knitwear nomenclature branch with measures, VAT, conditions, and
// exchange rates.
package main

import (
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := seed(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Println("reference store seeded")
}

func seed(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`INSERT INTO goods_nomenclature (goods_code, description, level, valid_from, is_leaf) VALUES
			('6110', 'Jerseys, pullovers, cardigans, waistcoats and similar articles, knitted or crocheted', 4, '2024-01-01', FALSE),
			('611020', 'Of cotton', 6, '2024-01-01', FALSE),
			('61102000', 'Jerseys, pullovers, cardigans and similar articles, of cotton, knitted', 8, '2024-01-01', TRUE),
			('611030', 'Of man-made fibres', 6, '2024-01-01', FALSE),
			('61103000', 'Jerseys, pullovers, cardigans and similar articles, of man-made fibres, knitted', 8, '2024-01-01', TRUE)
		ON CONFLICT (goods_code) DO NOTHING`,

		`INSERT INTO legal_bases (id, title) VALUES
			('R2658/87', 'Council Regulation (EEC) No 2658/87 on the tariff and statistical nomenclature'),
			('D2016/1076', 'Regulation (EU) 2016/1076 on trade arrangements for certain ACP states')
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO measures_import (goods_code, origin_group, measure_type, duty_components, legal_base_id, valid_from, cond_cert_code) VALUES
			('61102000', 'ERGA OMNES', 'third_country_duty', '[{"type":"ad_valorem","value":12.0,"unit":"percent"}]', 'R2658/87', '2024-01-01', NULL),
			('61102000', 'PK', 'preferential_duty', '[{"type":"ad_valorem","value":8.5,"unit":"percent"}]', 'D2016/1076', '2024-01-01', 'U088')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO measures_export (goods_code, destination_group, measure_type, duty_components, legal_base_id, valid_from) VALUES
			('61102000', 'ERGA OMNES', 'export_authorization', '[]', 'R2658/87', '2024-01-01')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO vat_rates (country_code, standard_rate, reduced_rate_1) VALUES
			('DE', 19.0, 7.0),
			('FR', 20.0, 5.5)
		ON CONFLICT (country_code) DO NOTHING`,

		`INSERT INTO measure_conditions (goods_code, certificate_code, action, notes, box44_codes) VALUES
			('61102000', 'U088', 'apply_preference', 'Proof of preferential origin under the GSP scheme', '{"U088"}')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO reach_map (goods_code_prefix, substance_group) VALUES
			('611020', 'textile_finishing_agents')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO exchange_rates (iso, rate, rate_date, source) VALUES
			('USD', 1.0842, '2025-08-29', 'ecb'),
			('EUR', 1.0000, '2025-08-29', 'ecb'),
			('GBP', 0.8431, '2025-08-29', 'ecb'),
			('JPY', 161.25, '2025-08-29', 'ecb'),
			('CHF', 0.9368, '2025-08-29', 'ecb')
		ON CONFLICT DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
