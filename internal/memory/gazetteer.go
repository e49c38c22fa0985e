package memory

// destinationGazetteer lists the places users commonly bring up when
// planning a trip: major cities first, then every country. Matching is
// case-insensitive substring; entries are stored lowercase.
var destinationGazetteer = []string{
	"paris", "nice", "lyon", "marseille", "bordeaux", "toulouse", "cannes",
	"versailles", "madrid", "barcelona", "seville", "valencia", "granada",
	"bilbao", "malaga", "palma de mallorca", "rome", "milan", "florence",
	"venice", "naples", "palermo", "catania", "amalfi coast", "london",
	"edinburgh", "manchester", "bath", "oxford", "york", "cambridge",
	"liverpool", "berlin", "munich", "frankfurt", "cologne", "hamburg",
	"dresden", "dusseldorf", "amsterdam", "rotterdam", "utrecht", "hague",
	"leiden", "vienna", "salzburg", "innsbruck", "graz", "prague", "brno",
	"cesky krumlov", "budapest", "szeged", "debrecen", "athens",
	"santorini", "mykonos", "thessaloniki", "crete", "rhodes", "corfu",
	"istanbul", "cappadocia", "antalya", "izmir", "ankara", "pamukkale",
	"moscow", "saint petersburg", "kazan", "yekaterinburg", "novosibirsk",
	"new york", "los angeles", "chicago", "miami", "san francisco", "dallas",
	"orlando", "washington dc", "toronto", "montreal", "vancouver", "calgary",
	"ottawa", "quebec city", "mexico city", "cancun", "guadalajara",
	"puerto vallarta", "merida", "san miguel de allende", "rio de janeiro",
	"sao paulo", "salvador", "brasilia", "recife", "porto alegre",
	"buenos aires", "cordoba", "mendoza", "bariloche", "rosario", "lima",
	"cusco", "machu picchu", "arequipa", "trujillo", "santiago",
	"valparaiso", "punta arenas", "easter island", "bogota", "medellin",
	"cali", "cartagena", "santa marta", "cairo", "giza", "alexandria",
	"luxor", "aswan", "sharm el sheikh", "dubai", "abu dhabi",
	"ras al khaimah", "delhi", "mumbai", "bangalore", "chennai", "kolkata",
	"hyderabad", "jaipur", "varanasi", "goa", "beijing", "shanghai",
	"guangzhou", "shenzhen", "xian", "hong kong", "macau", "hangzhou",
	"tokyo", "osaka", "kyoto", "yokohama", "sapporo", "fukuoka", "seoul",
	"busan", "incheon", "daegu", "jeju island", "bangkok", "chiang mai",
	"phuket", "pattaya", "krabi", "koh samui", "ho chi minh city", "hanoi",
	"da nang", "hoi an", "nha trang", "hue", "jakarta", "bali",
	"yogyakarta", "surabaya", "lombok", "bandung", "manila", "cebu",
	"davao", "palawan", "boracay", "bohol", "kuala lumpur", "penang",
	"malacca", "langkawi", "kota kinabalu", "sarawak", "sydney",
	"melbourne", "brisbane", "perth", "adelaide", "gold coast", "auckland",
	"wellington", "christchurch", "queenstown", "rotorua", "cape town",
	"johannesburg", "durban", "pretoria", "marrakech", "fes", "casablanca",
	"chefchaouen", "lisbon", "porto", "sintra", "coimbra", "faro", "riyadh",
	"jeddah", "medina", "mecca", "afghanistan", "albania", "algeria",
	"andorra", "angola", "antigua and barbuda", "argentina", "armenia",
	"australia", "austria", "azerbaijan", "bahamas", "bahrain",
	"bangladesh", "barbados", "belarus", "belgium", "belize", "benin",
	"bhutan", "bolivia", "bosnia and herzegovina", "botswana", "brazil",
	"brunei", "bulgaria", "burkina faso", "burundi", "cabo verde",
	"cambodia", "cameroon", "canada", "central african republic", "chad",
	"chile", "china", "colombia", "comoros", "congo", "costa rica",
	"croatia", "cuba", "cyprus", "czech republic", "denmark", "djibouti",
	"dominica", "dominican republic", "ecuador", "egypt", "el salvador",
	"equatorial guinea", "eritrea", "estonia", "eswatini", "ethiopia",
	"fiji", "finland", "france", "gabon", "gambia", "georgia", "germany",
	"ghana", "greece", "grenada", "guatemala", "guinea", "guinea-bissau",
	"guyana", "haiti", "honduras", "hungary", "iceland", "india",
	"indonesia", "iran", "iraq", "ireland", "israel", "italy", "jamaica",
	"japan", "jordan", "kazakhstan", "kenya", "kiribati", "kuwait",
	"kyrgyzstan", "laos", "latvia", "lebanon", "lesotho", "liberia",
	"libya", "liechtenstein", "lithuania", "luxembourg", "madagascar",
	"malawi", "malaysia", "maldives", "mali", "malta", "marshall islands",
	"mauritania", "mauritius", "mexico", "micronesia", "moldova", "monaco",
	"mongolia", "montenegro", "morocco", "mozambique", "myanmar", "namibia",
	"nauru", "nepal", "netherlands", "new zealand", "nicaragua", "niger",
	"nigeria", "north korea", "north macedonia", "norway", "oman",
	"pakistan", "palau", "panama", "papua new guinea", "paraguay", "peru",
	"philippines", "poland", "portugal", "qatar", "romania", "russia",
	"rwanda", "saint kitts and nevis", "saint lucia",
	"saint vincent and the grenadines", "samoa", "san marino",
	"sao tome and principe", "saudi arabia", "senegal", "serbia",
	"seychelles", "sierra leone", "singapore", "slovakia", "slovenia",
	"solomon islands", "somalia", "south africa", "south korea",
	"south sudan", "spain", "sri lanka", "sudan", "suriname", "sweden",
	"switzerland", "syria", "taiwan", "tajikistan", "tanzania", "thailand",
	"timor-leste", "togo", "tonga", "trinidad and tobago", "tunisia",
	"turkey", "turkmenistan", "tuvalu", "uganda", "ukraine",
	"united arab emirates", "united kingdom", "united states", "uruguay",
	"uzbekistan", "vanuatu", "venezuela", "vietnam", "yemen", "zambia",
	"zimbabwe",
}
