package wordless

// words is the Spanish five-letter pool secrets are drawn from.
var words = []string{
	"abajo", "abeja", "abono", "abril", "abrir", "acero", "actor", "adios",
	"agudo", "aguja", "ahora", "aldea", "altar", "amiga", "amigo", "ancho",
	"andar", "angel", "animo", "antes", "apoyo", "arena", "arbol", "aroma",
	"arroz", "atras", "audio", "autor", "avena", "aviso", "ayuda", "baile",
	"bajar", "balde", "banco", "banda", "barba", "barco", "barro", "batir",
	"beber", "bella", "bello", "besar", "bicho", "blusa", "bolsa", "bomba",
	"borde", "boton", "bravo", "brazo", "breve", "brisa", "broma", "bruja",
	"bueno", "bulto", "burla", "burro", "busca", "cable", "cabra", "cacao",
	"caldo", "calle", "calma", "calor", "campo", "canal", "canoa", "canto",
	"capaz", "carga", "carne", "carro", "carta", "casco", "causa", "cazar",
	"celda", "cenar", "cerdo", "cerro", "cesta", "chica", "chico", "cielo",
	"cifra", "cinco", "cinta", "circo", "civil", "clara", "claro", "clase",
	"clave", "clavo", "clima", "cobre", "coche", "color", "comer", "copia",
	"coral", "corte", "corto", "coser", "costa", "crear", "creer", "crema",
	"crudo", "cruel", "cuero", "cueva", "culpa", "curso", "curva", "danza",
	"deber", "debil", "decir", "dejar", "denso", "desde", "deseo", "deuda",
	"dicho", "dieta", "digno", "disco", "doble", "dolor", "donde", "dosis",
	"drama", "ducha", "dudar", "dulce", "echar", "enano", "enero", "enojo",
	"entre", "envio", "error", "estar", "etapa", "exito", "facil", "falda",
	"fallo", "falta", "farol", "fatal", "fauna", "favor", "fecha", "feliz",
	"feria", "firma", "firme", "flaco", "flora", "fondo", "forma", "freno",
	"fresa", "fruta", "fuego", "fuera", "fugaz", "fumar", "furia", "gafas",
	"gallo", "ganar", "garra", "gasto", "gente", "gesto", "girar", "globo",
	"golpe", "gordo", "gorra", "grado", "grano", "grasa", "grave", "grito",
	"grupo", "guapo", "gusto", "haber", "habil", "habla", "hacer", "hacha",
	"hacia", "hasta", "hecho", "herir", "hielo", "hogar", "hondo", "hongo",
	"honor", "hotel", "huevo", "humor", "ideal", "igual", "jamon", "jarra",
	"jaula", "joven", "juego", "jugar", "junio", "junto", "justo", "labio",
	"labor", "leche", "legal", "lejos", "lento", "letra", "libre", "libro",
	"lider", "limon", "lindo", "linea", "listo", "llama", "llave", "lleno",
	"local", "logro", "lucha", "lucir", "luego", "lugar", "lunes", "madre",
	"magia", "mango", "manta", "marca", "marco", "marea", "marzo", "mayor",
	"medio", "mejor", "menor", "menos", "mente", "metal", "meter", "metro",
	"miedo", "mirar", "mismo", "mitad", "molde", "monte", "moral", "morir",
	"mosca", "motor", "mover", "mucho", "mujer", "multa", "mundo", "museo",
	"nacer", "nadar", "nariz", "negar", "negro", "nieve", "nivel", "noble",
	"noche", "norte", "notar", "novia", "novio", "nueve", "nuevo", "nunca",
	"ocaso", "odiar", "oeste", "oliva", "opera", "orden", "oreja", "otoño",
	"oveja", "pacto", "padre", "pagar", "palma", "papel", "parar", "pared",
	"parte", "pasar", "paseo", "pasta", "patio", "pausa", "pecho", "pedir",
	"pegar", "peine", "pelea", "perla", "perro", "pesar", "pesca", "piano",
	"picar", "pieza", "pilar", "pista", "pizza", "placa", "plano", "plata",
	"plato", "playa", "plaza", "plazo", "pleno", "plomo", "pluma", "pobre",
	"poder", "poema", "poeta", "pollo", "polvo", "poner", "poste", "prado",
	"presa", "primo", "prisa", "pulpo", "pulso", "punta", "punto", "queja",
	"queso", "quien", "radio", "rango", "razon", "recto", "regla", "reina",
	"reino", "reloj", "renta", "resto", "rezar", "riego", "rigor", "rival",
	"ritmo", "robar", "roble", "robot", "rodeo", "rollo", "ronda", "rubio",
	"rueda", "ruido", "ruina", "rumbo", "rural", "saber", "sabio", "sabor",
	"sacar", "saldo", "salir", "salon", "salsa", "salto", "salud", "salvo",
	"sanar", "santo", "sauce", "secar", "sello", "selva", "senda", "serie",
	"serio", "siete", "siglo", "signo", "silla", "sitio", "sobre", "socio",
	"solar", "sordo", "suave", "subir", "sucio", "sudar", "suelo", "sueño",
	"sumar", "surge", "susto", "tabla", "tacto", "talla", "tango", "tanto",
	"tapar", "tarde", "tarea", "tarta", "techo", "tecla", "tejer", "temer",
	"temor", "tenaz", "tener", "tenis", "tenor", "texto", "tigre", "tinta",
	"tirar", "tocar", "tomar", "tonto", "toque", "torre", "torso", "toser",
	"total", "traer", "trago", "traje", "trama", "trato", "trazo", "tribu",
	"trigo", "trono", "tropa", "trote", "trozo", "truco", "tumba", "tumor",
	"tunel", "turno", "tutor", "unico", "unido", "union", "usado", "usted",
	"usual", "vacio", "vagar", "valer", "valle", "valor", "vapor", "vejez",
	"velar", "veloz", "venir", "venta", "verbo", "verde", "verso", "viaje",
	"vicio", "video", "viejo", "vigor", "villa", "virus", "vista", "visto",
	"viuda", "vivir", "vocal", "volar", "votar", "vuelo", "yerba", "yogur",
	"zarza", "zorro",
}
