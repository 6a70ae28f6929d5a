// Package symbols holds the static ticker universes for the two tracked
// markets and helpers for loading override lists from CSV.
package symbols

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// SP500 is the tracked S&P 500 universe. Order matters for progress logging;
// duplicates from the upstream list are tolerated and not deduplicated.
var SP500 = []string{
	"AAPL", "MSFT", "NVDA", "GOOGL", "GOOG", "AMZN", "META", "BRK-B", "LLY", "AVGO",
	"TSLA", "WMT", "JPM", "UNH", "XOM", "V", "ORCL", "MA", "COST", "HD",
	"NFLX", "JNJ", "BAC", "ABBV", "CRM", "KO", "CVX", "AMD", "ADBE", "MRK",
	"WFC", "LIN", "PEP", "TMO", "CSCO", "ABT", "DIS", "ACN", "INTU", "VZ",
	"TXN", "QCOM", "CMCSA", "PM", "DHR", "SPGI", "RTX", "AMAT", "HON", "CAT",
	"AXP", "MU", "UBER", "AMGN", "NEE", "T", "LOW", "BSX", "GS", "ISRG",
	"BLK", "PFE", "SYK", "BKNG", "ELV", "SCHW", "ADP", "LMT", "MDT", "GILD",
	"CB", "CI", "MMC", "C", "LRCX", "PLD", "SO", "FI", "MO", "KLAC",
	"ICE", "USB", "DUK", "SHW", "ZTS", "PGR", "AON", "CMG", "CL", "SNPS",
	"EQIX", "APH", "ITW", "MSI", "EMR", "CSX", "WM", "MCK", "PNC", "ORLY",
	"MAR", "TJX", "NOC", "MCO", "ECL", "WELL", "HCA", "CVS", "BDX",
	"ADSK", "APD", "SLB", "TGT", "CDNS", "MNST", "ROP", "COP", "ROST", "NKE",
	"CTAS", "AJG", "KMB", "AFL", "SRE", "PAYX", "FAST", "OKE", "CME", "AMT",
	"O", "AEP", "CCI", "FICO", "GWW", "VRSK", "KR", "EA", "XEL", "HLT",
	"A", "VMC", "CTSH", "AIG", "ALL", "IQV", "PRU", "GLW", "PCAR", "STZ",
	"HSY", "SPG", "PSA", "ACGL", "CARR", "EXC", "GM", "AZO", "IDXX", "GIS",
	"AMP", "CMI", "NXPI", "MCHP", "TEL", "PCG", "CPRT", "JCI", "PEG", "TROW",
	"BK", "KHC", "CNC", "ED", "PSX", "TRV", "YUM", "ON", "ANET",
	"ADI", "VRTX", "F", "BIIB", "EW", "MLM", "MPC", "DAL", "SBUX", "DXCM",
	"ANSS", "WEC", "KEYS", "AWK", "REGN", "DOW", "RMD", "RSG", "OTIS", "WBD",
	"FITB", "FDS", "FSLR", "FE", "FTNT", "FTV", "FOXA", "FOX", "BEN", "FCX",
	"GRMN", "IT", "GE", "GEHC", "GEV", "GEN", "GNRC", "GD", "GPC", "GL",
	"GDDY", "HAL", "HIG", "HAS", "HSIC", "HES", "HPE", "HOLX", "HRL", "HST",
	"HWM", "HPQ", "HUM", "HBAN", "HII", "IBM", "IEX", "IDXX", "INFO", "ILMN",
	"INCY", "IR", "INTC", "IFF", "IP", "IPG", "IRM", "IVZ", "INVH", "J",
	"JBHT", "SJM", "JCI", "JNPR", "K", "KDP", "KEY", "KEYS", "KIM", "KMI",
	"KHC", "LHX", "LH", "LW", "LVS", "LDOS", "LEN", "LNC", "LYV", "LKQ",
	"L", "LUMN", "LYB", "MTB", "MRO", "MPC", "MKTX", "MAR", "MMC", "MLM",
	"MAS", "MTCH", "MKC", "MCD", "MCK", "MET", "MTD", "MGM", "MCHP", "MAA",
	"MRNA", "MHK", "MOH", "TAP", "MDLZ", "MCO", "MS", "MOS", "MUR", "NDAQ",
	"NTAP", "NWL", "NEM", "NWSA", "NWS", "NI", "NDSN", "NSC", "NTRS", "NLOK",
	"NCLH", "NRG", "NUE", "NVR", "ODFL", "OMC", "OXY", "OGN", "PCAR", "PKG",
	"PANW", "PARA", "PH", "PAYC", "PYPL", "PNR", "PFE", "PNW", "PXD", "POOL",
	"PPG", "PPL", "PFG", "PG", "PHM", "QRVO", "PWR", "DGX", "RL", "RJF",
	"REG", "RF", "RVTY", "RHI", "ROK", "ROL", "RCL", "SBAC", "STX", "SEE",
	"NOW", "SPG", "SWKS", "SNA", "SEDG", "LUV", "SWK", "STT", "STLD", "STE",
	"SYF", "SYY", "TMUS", "TTWO", "TPG", "TXT", "TSCO", "TT", "TDG", "TRMB",
	"TFC", "TYL", "TSN", "UDR", "ULTA", "UNP", "UAL", "UPS", "URI", "UHS",
	"VLO", "VTR", "VRSN", "VFC", "VICI", "VMC", "WAB", "WBA", "WBD", "WAT",
	"WFC", "WST", "WDC", "WY", "WSM", "WMB", "WTW", "WYNN", "XYL", "ZBRA",
	"ZBH",
}

// TA125 is the tracked TA-125 universe, Yahoo-suffixed.
var TA125 = []string{
	// Financial
	"FIBI.TA", "DSCT.TA", "MIZR.TA", "LUMI.TA", "YAHD.TA", "POLI.TA", "ARVL.TA",
	"KEN.TA", "HARL.TA", "CLIS.TA", "MMHD.TA", "MGDL.TA", "ISCD.TA",
	// Technology
	"TEVA.TA", "ESLT.TA", "NVMI.TA", "NICE.TA", "TSEM.TA", "CAMT.TA", "NYAX.TA",
	"ONE.TA", "SPNS.TA", "FORTY.TA", "MTRX.TA", "HLAN.TA", "MGIC.TA", "TLSY.TA",
	"MLTM.TA", "NXSN.TA", "PRTC.TA", "BEZQ.TA", "PTNR.TA", "CEL.TA",
	// Real estate
	"AZRG.TA", "MLSR.TA", "BIG.TA", "ALHE.TA", "ARPT.TA", "FTAL.TA", "MVNE.TA",
	"AURA.TA", "AZRM.TA", "GVYM.TA", "GCT.TA", "ARGO.TA", "SLARL.TA", "AFRE.TA",
	"RIT1.TA", "SMT.TA", "ISRO.TA", "ISCN.TA", "MGOR.TA", "BLSR.TA", "CRSR.TA",
	"ELCRE.TA",
	// Energy
	"NWMD.TA", "ORA.TA", "DLEKG.TA", "OPCE.TA", "NVPT.TA", "ENLT.TA", "ENOG.TA",
	"ENRG.TA", "PAZ.TA", "ISRA.TA", "RATI.TA", "TMRP.TA", "ORL.TA", "DORL.TA",
	"DRAL.TA", "MSKE.TA", "BEZN.TA", "SBEN.TA", "NOFR.TA", "DUNI.TA",
	// Insurance
	"PHOE.TA", "IDIN.TA", "MISH.TA", "BCOM.TA", "VRDS.TA", "TDRN.TA", "PTBL.TA",
	"WLFD.TA",
	// Healthcare
	"FIVR.TA", "MDCO.TA", "CBRT.TA", "NVLS.TA", "CFCO.TA", "RDHL.TA",
	"NURO.TA", "KAMN.TA", "MTDS.TA", "NVLG.TA",
	// Retail and consumer
	"SAE.TA", "RMLI.TA", "FOX.TA", "YHNF.TA", "RTLS.TA", "OPK.TA", "BWAY.TA",
	"BYND.TA", "MAXO.TA", "CAST.TA", "LAPD.TA", "SODA.TA",
	// Construction and industrial
	"SNIF.TA", "SHNY.TA", "AFCON.TA", "SOLB.TA", "ELCO.TA", "DANR.TA", "GMUL.TA",
	"EMCO.TA", "ARKO.TA", "ARYT.TA", "PLSN.TA", "PLRM.TA", "ACKR.TA", "ICL.TA",
	"INRM.TA", "BNRG.TA", "MRHL.TA", "NVLG.TA", "MRHL.TA", "INRM.TA",
}

// Load reads symbols from the first column of a CSV file with a header row.
// Blank cells are skipped; tickers are upper-cased.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", path, err)
	}

	if len(records) < 2 {
		return nil, nil
	}

	out := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		sym := strings.TrimSpace(row[0])
		if sym != "" {
			out = append(out, strings.ToUpper(sym))
		}
	}
	return out, nil
}

// Shuffle returns a shuffled copy of the list. Jobs shuffle their universe
// so request order differs run to run.
func Shuffle(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
