// Command ingest loads reference data from an XLSX workbook into the
// reference store. Expected sheets: "nomenclature" with columns
// goods_code, description, level, valid_from, is_leaf; and "vat_rates" with
// columns country_code, standard_rate, reduced_rate_1.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/repository/postgres"
)

func main() {
	path := flag.String("file", "", "path to the XLSX workbook")
	flag.Parse()
	if *path == "" {
		log.Fatal("usage: ingest -file <workbook.xlsx>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	workbook, err := excelize.OpenFile(*path)
	if err != nil {
		log.Fatalf("failed to open workbook: %v", err)
	}
	defer workbook.Close()

	nomCount, err := ingestNomenclature(db, workbook)
	if err != nil {
		log.Fatalf("nomenclature ingest failed: %v", err)
	}
	log.Printf("ingested %d nomenclature rows", nomCount)

	vatCount, err := ingestVATRates(db, workbook)
	if err != nil {
		log.Fatalf("vat ingest failed: %v", err)
	}
	log.Printf("ingested %d vat rows", vatCount)
}

func ingestNomenclature(db *sqlx.DB, workbook *excelize.File) (int, error) {
	rows, err := workbook.GetRows("nomenclature")
	if err != nil {
		return 0, fmt.Errorf("read nomenclature sheet: %w", err)
	}
	if len(rows) < 2 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for i, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		code := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		level, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return count, fmt.Errorf("row %d: bad level %q", i+2, row[2])
		}
		validFrom, err := time.Parse("2006-01-02", strings.TrimSpace(row[3]))
		if err != nil {
			return count, fmt.Errorf("row %d: bad valid_from %q", i+2, row[3])
		}
		isLeaf := strings.EqualFold(strings.TrimSpace(row[4]), "true")

		_, err = tx.Exec(`
			INSERT INTO goods_nomenclature (goods_code, description, level, valid_from, is_leaf)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (goods_code) DO UPDATE
			SET description = EXCLUDED.description, level = EXCLUDED.level,
			    valid_from = EXCLUDED.valid_from, is_leaf = EXCLUDED.is_leaf`,
			code, description, level, validFrom, isLeaf)
		if err != nil {
			return count, fmt.Errorf("row %d: insert %s: %w", i+2, code, err)
		}
		count++
	}

	return count, tx.Commit()
}

func ingestVATRates(db *sqlx.DB, workbook *excelize.File) (int, error) {
	rows, err := workbook.GetRows("vat_rates")
	if err != nil {
		// The sheet is optional.
		return 0, nil
	}
	if len(rows) < 2 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for i, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		country := strings.ToUpper(strings.TrimSpace(row[0]))
		standard, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return count, fmt.Errorf("row %d: bad standard_rate %q", i+2, row[1])
		}
		var reduced *float64
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return count, fmt.Errorf("row %d: bad reduced_rate_1 %q", i+2, row[2])
			}
			reduced = &v
		}

		_, err = tx.Exec(`
			INSERT INTO vat_rates (country_code, standard_rate, reduced_rate_1)
			VALUES ($1, $2, $3)
			ON CONFLICT (country_code) DO UPDATE
			SET standard_rate = EXCLUDED.standard_rate, reduced_rate_1 = EXCLUDED.reduced_rate_1`,
			country, standard, reduced)
		if err != nil {
			return count, fmt.Errorf("row %d: insert %s: %w", i+2, country, err)
		}
		count++
	}

	return count, tx.Commit()
}
