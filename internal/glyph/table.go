package glyph

// Rule maps a keyword set to a glyph. Keywords are written folded (lowercase,
// no diacritics). A trailing "*" matches any word with that prefix and a space
// separates the words of a phrase.
type Rule struct {
	Glyph    string
	Keywords []string
}

// Rules is scanned in order and the first matching rule wins. Regions come
// before topics.
//
//nolint:gochecknoglobals // Immutable lookup table.
var Rules = []Rule{
	{Glyph: "🇲🇩", Keywords: []string{
		"moldov*", "chisinau*", "balti", "transnistri*", "tiraspol*", "gagauz*",
		"maia sandu", "recean", "молдов*", "кишин*", "приднестров*",
	}},
	{Glyph: "🇷🇴", Keywords: []string{
		"romania", "romaniei", "bucurest*", "iohannis", "ciolacu", "nicusor dan",
		"румын*", "бухарест*",
	}},
	{Glyph: "🇺🇦", Keywords: []string{
		"ucrain*", "ukrain*", "kiev*", "kyiv", "zelensk*", "украин*", "киев*", "зеленск*",
	}},
	{Glyph: "🇷🇺", Keywords: []string{
		"rusia", "rusiei", "kremlin*", "moscov*", "putin*", "росси*", "кремл*", "москв*", "путин*",
	}},
	{Glyph: "🇺🇸", Keywords: []string{
		"sua", "statele unite", "washington", "casa alba", "trump*", "biden*", "сша",
	}},
	{Glyph: "🇪🇺", Keywords: []string{
		"ue", "uniunea europeana", "uniunii europene", "comisia europeana", "bruxelles",
		"евросоюз*", "ес",
	}},
	{Glyph: "⚔️", Keywords: []string{
		"razboi*", "atac*", "armat*", "militar*", "conflict*", "bombard*", "drone",
		"soldat*", "racheta", "rachete", "войн*", "атак*",
	}},
	{Glyph: "🏛️", Keywords: []string{
		"guvern*", "parlament*", "ministr*", "deputat*", "alegeri*", "presedint*",
		"premier*", "partid*", "politic*", "referendum*", "legea", "lege", "правительств*",
	}},
	{Glyph: "⚡", Keywords: []string{
		"energ*", "gaz", "gaze", "gazul", "gazelor", "electric*", "petrol*", "combustibil*",
	}},
	{Glyph: "💰", Keywords: []string{
		"econom*", "buget*", "inflati*", "pret", "preturi*", "tarif*", "banca", "bancii",
		"salari*", "pensi*", "impozit*", "taxe", "fiscal*", "investiti*", "export*", "import*",
	}},
	{Glyph: "💻", Keywords: []string{
		"tehnolog*", "digital*", "internet*", "inteligenta artificiala", "software",
		"cibernetic*", "hacker*", "smartphone*", "startup*",
	}},
	{Glyph: "⚽", Keywords: []string{
		"sport*", "fotbal*", "meci*", "campionat*", "olimpic*", "tenis*", "turneu*",
	}},
	{Glyph: "🏥", Keywords: []string{
		"sanatat*", "spital*", "medic*", "pacient*", "vaccin*", "epidemi*", "virus*", "boala", "bolnav*",
	}},
	{Glyph: "🌍", Keywords: []string{
		"mediu", "mediului", "climat*", "poluar*", "ecolog*", "inundati*", "seceta", "cutremur*",
	}},
	{Glyph: "⚖️", Keywords: []string{
		"justiti*", "judecat*", "procuror*", "dosar*", "condamn*", "arest*", "coruptie*",
		"anticoruptie", "sentint*", "tribunal*", "instanta", "instantei",
	}},
	{Glyph: "📚", Keywords: []string{
		"educati*", "scoal*", "elev*", "student*", "universitat*", "profesor*", "bacalaureat*",
	}},
	{Glyph: "🎭", Keywords: []string{
		"cultur*", "teatr*", "film*", "muzic*", "festival*", "concert*", "muzeu*", "expozitie*",
	}},
	{Glyph: "🚨", Keywords: []string{
		"accident*", "incendiu*", "explozi*", "victime*", "crima", "omor*", "politia", "politiei",
	}},
	{Glyph: "🌾", Keywords: []string{
		"agricult*", "agricol*", "fermier*", "recolt*", "viticol*",
	}},
	{Glyph: "✈️", Keywords: []string{
		"transport*", "aeroport*", "zbor*", "autostrad*", "feroviar*",
	}},
}

// Palette holds fallback glyphs used once every relevant glyph is taken. It
// is larger than the batch cap.
//
//nolint:gochecknoglobals // Immutable lookup table.
var Palette = []string{
	"📰", "📌", "🔎", "📈", "🤝", "🧭", "🗞️", "💬", "🔔", "🧩",
}

// DomesticLexicon decides which batch items are domestic news.
//
//nolint:gochecknoglobals // Immutable lookup table.
var DomesticLexicon = []string{
	"moldov*", "chisinau*", "balti", "transnistri*", "tiraspol*", "gagauz*", "comrat*",
	"cahul*", "orhei*", "ungheni*", "soroca*", "hincesti", "edinet*", "causeni", "straseni",
	"ialoveni", "anenii noi", "maia sandu", "sandu", "recean", "grosu", "dodon*", "bnm",
	"maib", "moldovagaz", "energocom", "молдов*", "кишин*", "приднестров*",
	"гагауз*", "тирасп*",
}
