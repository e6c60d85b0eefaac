package holiday

import (
	"time"

	"github.com/rickar/cal/v2"
)

const day = 24 * time.Hour

var (
	KashmirDay = &cal.Holiday{
		Name:  "Kashmir Solidarity Day",
		Month: time.February,
		Day:   5,
		Func:  cal.CalcDayOfMonth,
	}

	PakistanDay = &cal.Holiday{
		Name:  "Pakistan Day",
		Month: time.March,
		Day:   23,
		Func:  cal.CalcDayOfMonth,
	}

	LabourDay = &cal.Holiday{
		Name:  "Labour Day",
		Month: time.May,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}

	YoumETakbeer = &cal.Holiday{
		Name:      "Youm-e-Takbeer",
		Month:     time.May,
		Day:       28,
		Func:      cal.CalcDayOfMonth,
		StartYear: 2024,
	}

	IndependenceDay = &cal.Holiday{
		Name:  "Independence Day",
		Month: time.August,
		Day:   14,
		Func:  cal.CalcDayOfMonth,
	}

	IqbalDay = &cal.Holiday{
		Name:  "Iqbal Day",
		Month: time.November,
		Day:   9,
		Func:  cal.CalcDayOfMonth,
	}

	QuaidDay = &cal.Holiday{
		Name:  "Quaid-e-Azam Day",
		Month: time.December,
		Day:   25,
		Func:  cal.CalcDayOfMonth,
	}

	EidUlFitr = &cal.Holiday{
		Name: "Eid ul-Fitr",
		Func: lunarDates(map[int]string{
			2017: "2017-06-26",
			2018: "2018-06-15",
			2019: "2019-06-05",
			2020: "2020-05-24",
			2021: "2021-05-13",
			2022: "2022-05-03",
			2023: "2023-04-22",
			2024: "2024-04-10",
			2025: "2025-03-31",
			2026: "2026-03-21",
			2027: "2027-03-10",
		}),
	}

	EidUlAdha = &cal.Holiday{
		Name: "Eid ul-Adha",
		Func: lunarDates(map[int]string{
			2017: "2017-09-02",
			2018: "2018-08-22",
			2019: "2019-08-12",
			2020: "2020-07-31",
			2021: "2021-07-21",
			2022: "2022-07-10",
			2023: "2023-06-29",
			2024: "2024-06-17",
			2025: "2025-06-07",
			2026: "2026-05-27",
			2027: "2027-05-17",
		}),
	}

	Ashura = &cal.Holiday{
		Name: "Ashura",
		Func: lunarDates(map[int]string{
			2017: "2017-10-01",
			2018: "2018-09-21",
			2019: "2019-09-10",
			2020: "2020-08-30",
			2021: "2021-08-19",
			2022: "2022-08-09",
			2023: "2023-07-28",
			2024: "2024-07-17",
			2025: "2025-07-06",
			2026: "2026-06-26",
			2027: "2027-06-15",
		}),
	}

	EidMiladUnNabi = &cal.Holiday{
		Name: "Eid Milad un-Nabi",
		Func: lunarDates(map[int]string{
			2017: "2017-12-01",
			2018: "2018-11-21",
			2019: "2019-11-10",
			2020: "2020-10-30",
			2021: "2021-10-19",
			2022: "2022-10-09",
			2023: "2023-09-29",
			2024: "2024-09-17",
			2025: "2025-09-06",
			2026: "2026-08-26",
			2027: "2027-08-15",
		}),
	}
)

// Pakistan returns the federal public holidays of Pakistan. The Eid holidays span three
// days and Ashura covers the 9th and 10th of Muharram.
func Pakistan() *Calendar {
	return &Calendar{
		Country: "PK",
		Definitions: []Definition{
			{Holiday: KashmirDay},
			{Holiday: PakistanDay},
			{Holiday: LabourDay},
			{Holiday: YoumETakbeer},
			{Holiday: IndependenceDay},
			{Holiday: IqbalDay},
			{Holiday: QuaidDay},
			{Holiday: EidUlFitr, After: 2 * day},
			{Holiday: EidUlAdha, After: 2 * day},
			{Holiday: Ashura, Before: day},
			{Holiday: EidMiladUnNabi},
		},
	}
}
