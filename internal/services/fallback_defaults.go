package services

// Built-in fallback rules, in match priority order. Keywords are matched as
// lower-case substrings of the visitor message.
func defaultFallbackRules() FallbackRules {
	return FallbackRules{
		Rules: []FallbackRule{
			{
				Name:     "greeting",
				Keywords: []string{"ciao", "salve", "buongiorno", "buonasera", "hey"},
				Responses: []string{
					"Ciao! 👋 Sono DevNinja-bot! Sono qui per aiutarti con informazioni sui nostri servizi di sviluppo web! 😊",
					"Salve! 🤖 DevNinja-bot qui! Sono pronto ad aiutarti con tutte le informazioni su sviluppo web, prezzi e servizi. Usa i bottoni per scoprire di più! 😊",
					"Hey! 👋 Benvenuto! Sono l'assistente virtuale di DevNinja. Posso aiutarti con domande su siti web, app, e-commerce e molto altro! 🚀",
				},
			},
			{
				Name:     "identity",
				Keywords: []string{"chi sei", "cosa sei", "nome", "presentati"},
				Responses: []string{
					"Sono DevNinja-bot! 🤖 L'assistente virtuale di DevNinja, un'azienda di sviluppo web di Milano. Sono qui per aiutarti con informazioni sui nostri servizi! 😊",
					"Mi chiamo DevNinja-bot! 🤖 Sono un chatbot AI che lavora per DevNinja. Il mio compito è aiutarti a scoprire come possiamo realizzare il tuo progetto web! 🚀",
					"Ciao! Sono DevNinja-bot, il tuo assistente virtuale! 🤖 Lavoro per DevNinja e sono specializzato nel fornire informazioni su sviluppo web, prezzi e servizi. Usa i bottoni per esplorare! 😊",
				},
			},
			{
				Name:     "services",
				Keywords: []string{"servizi", "cosa fate", "che lavoro", "sviluppo"},
				Responses: []string{
					"Ah, ottima domanda! 😊 Noi di DevNinja ci occupiamo principalmente di:\n\nCreiamo siti web moderni con React e Vue.js, sviluppiamo backend robusti, realizziamo e-commerce che convertono davvero e chatbot AI come me!\n\nSaremo felici di discutere del tuo progetto! 🚀",
					"Perfetto! DevNinja si specializza in:\n\n🌐 Sviluppo web frontend e backend\n🛒 E-commerce personalizzati\n🤖 Chatbot AI intelligenti\n📱 App web responsive",
					"Ciao! Sono DevNinja-bot e posso parlarti dei nostri servizi:\n\nSviluppiamo soluzioni web complete, dai siti vetrina alle app complesse, passando per e-commerce e chatbot come me!\n\nContattaci per discutere del tuo progetto! 🚀",
				},
			},
			{
				Name:     "pricing",
				Keywords: []string{"prezzo", "costo", "quanto", "budget", "spesa", "euro", "soldi"},
				Responses: []string{
					"Capisco, il budget è sempre importante! 💰\n\nI nostri progetti partono da €800 per un sito vetrina fino a €8.000 per app web complesse. Ma ogni progetto è unico!\n\nContattaci per un preventivo personalizzato sui costi. 😊",
					"Ottima domanda sui prezzi! 💰\n\nDipende molto dal tipo di progetto:\n• Sito base: €800-1.500\n• Sito business: €1.500-3.000\n• App web: €3.000-8.000\n• Chatbot: €500-2.000\n\nContattaci per parlare del tuo progetto specifico!",
					"I prezzi variano in base alle esigenze! 💰\n\nPer un preventivo accurato, contattaci specificando:\n- Che tipo di sito/app ti serve\n- Quali funzionalità vuoi includere\n\nCosì potremo essere più precisi! 😊",
				},
			},
			{
				Name:     "timeline",
				Keywords: []string{"tempo", "quanto ci vuole", "durata", "veloce", "presto", "quando"},
				Responses: []string{
					"Ottima domanda! ⏰\n\nI tempi dipendono dalla complessità del progetto:\n\n• Sito semplice: 2-4 settimane\n• Progetto business: 4-8 settimane\n• App complessa: 8-16 settimane\n• Chatbot: 1-3 settimane\n\nContattaci per una stima più precisa del tuo progetto! 😊",
					"I tempi variano in base al progetto! ⏰\n\nGeneralmente:\n- Siti vetrina: 2-4 settimane\n- Siti business: 1-2 mesi\n- App web: 2-4 mesi\n- Chatbot: 1-3 settimane\n\nContattaci per discutere del tuo progetto specifico!",
					"Dipende dal tipo di sviluppo! ⏰\n\nPer una stima precisa sui tempi, contattaci specificando:\n- Che tipo di sito/app ti serve\n- Se hai già i contenuti pronti\n- Quali funzionalità particolari servono\n\nCosì potremo darti una stima accurata! 😊",
				},
			},
			{
				Name:     "contact",
				Keywords: []string{"contatt", "telefono", "email", "chiamare", "scrivere", "dove siete", "indirizzo"},
				Responses: []string{
					"Perfetto! Ecco come puoi raggiungerci:\n\n📧 info@devninja.it (rispondo sempre entro 24h)\n📱 +39 02 1234 5678\n🏢 Via Roma 123, Milano\n\nSiamo disponibili dal lunedì al venerdì, 9-18. Scegli il canale che preferisci! 😊",
					"Eccoci! Puoi contattarci così:\n\n📧 info@devninja.it\n📱 +39 02 1234 5678\n🏢 Via Roma 123, Milano\n\nIl team è disponibile dal lunedì al venerdì, dalle 9 alle 18. Ti ricontatteremo al più presto! 😊",
					"Certo! I nostri contatti sono:\n\n📧 info@devninja.it (risposta garantita in 24h)\n📱 +39 02 1234 5678\n🏢 Via Roma 123, Milano\n\nScegli il metodo che preferisci per contattarci! 😊",
				},
			},
			{
				Name:     "website",
				Keywords: []string{"siti web", "sito web", "sito internet"},
				Responses: []string{
					"Perfetto! 🌐 Realizziamo siti web di ogni tipo:\n\n• Siti vetrina professionali\n• Siti aziendali completi\n• Landing page ottimizzate\n• Portfolio creativi\n• Blog e magazine\n\nTutti i nostri siti sono responsive, veloci e SEO-friendly. Contattaci per il tuo progetto! 😊",
					"Ottima scelta! 🌐 I nostri siti web includono:\n\n✅ Design moderno e responsive\n✅ Ottimizzazione SEO\n✅ Velocità di caricamento elevata\n✅ Sicurezza avanzata\n✅ Gestione contenuti facile\n\nContattaci per parlare del tuo progetto!",
					"Specializzati in siti web! 🌐\n\nOffriamo:\n- Sviluppo custom o CMS\n- Design unico e professionale\n- Ottimizzazione per mobile\n- Integrazione social e analytics\n- Manutenzione e supporto\n\nContattaci per discutere del design! 🎨",
				},
			},
			{
				Name:     "ecommerce",
				Keywords: []string{"e-commerce", "ecommerce", "negozio online", "vendere online"},
				Responses: []string{
					"Fantastico! 🛒 Creiamo e-commerce completi e professionali:\n\n• Catalogo prodotti illimitato\n• Gestione ordini e magazzino\n• Pagamenti sicuri (PayPal, Stripe, ecc.)\n• Spedizioni automatizzate\n• Dashboard amministrativa\n• App mobile opzionale\n\nContattaci per il tuo negozio online! 😊",
					"Perfetto per il business online! 🛒\n\nI nostri e-commerce includono:\n✅ Design responsive e moderno\n✅ Carrello e checkout ottimizzati\n✅ Gestione clienti e ordini\n✅ Integrazione con corrieri\n✅ Analytics e reportistica\n✅ SEO per prodotti\n\nContattaci per iniziare a vendere online!",
					"E-commerce è la nostra specialità! 🛒\n\nCaratteristiche principali:\n- Piattaforma scalabile\n- Sicurezza PCI compliant\n- Multi-lingua e multi-valuta\n- Gestione sconti e promozioni\n- Integrazione social commerce\n\nContattaci per lanciare il tuo business online! 📦",
				},
			},
			{
				Name:     "webapp",
				Keywords: []string{"app web", "applicazione web", "web app"},
				Responses: []string{
					"Eccellente! 📱 Sviluppiamo app web avanzate:\n\n• Progressive Web App (PWA)\n• Dashboard gestionali\n• Piattaforme SaaS\n• Sistemi di prenotazione\n• CRM personalizzati\n• Portali utente\n\nTutte funzionano su desktop, tablet e mobile. Contattaci per la tua app! 🚀",
					"App web su misura! 📱\n\nI nostri servizi includono:\n✅ Interfacce intuitive\n✅ Database sicuri\n✅ API personalizzate\n✅ Autenticazione utenti\n✅ Notifiche real-time\n✅ Backup automatici\n\nContattaci per realizzare la tua idea!",
					"Specializzati in app web! 📱\n\nTecnologie moderne:\n- React, Vue, Angular\n- Node.js, Python, PHP\n- Database SQL/NoSQL\n- Cloud hosting scalabile\n- Sicurezza enterprise\n\nContattaci per sviluppare la tua soluzione! 💡",
				},
			},
			{
				Name:     "chatbot",
				Keywords: []string{"chatbot", "chat bot", "assistente virtuale"},
				Responses: []string{
					"Ottima idea! 🤖 Creiamo chatbot intelligenti come me:\n\n• Assistenti clienti 24/7\n• Chatbot per e-commerce\n• Bot per prenotazioni\n• Assistenti informativi\n• Integrazione WhatsApp/Telegram\n• AI conversazionale avanzata\n\nContattaci per automatizzare il tuo customer service! 😊",
					"Chatbot personalizzati! 🤖\n\nCaratteristiche:\n✅ Risposte intelligenti\n✅ Integrazione CRM\n✅ Multi-piattaforma\n✅ Analytics conversazioni\n✅ Escalation umana\n✅ Training personalizzato\n\nContattaci per il tuo settore specifico!",
					"Come me, ma su misura! 🤖\n\nOffriamo:\n- Chatbot rule-based o AI\n- Integrazione con sistemi esistenti\n- Design conversazionale\n- Testing e ottimizzazione\n- Manutenzione continua\n\nContattaci per progettare il tuo chatbot! 💬",
				},
			},
		},
		Default: []string{
			"Ciao! Sono DevNinja-bot! 🤖\n\nSono l'assistente virtuale di DevNinja e sono qui per aiutarti con qualsiasi domanda sui nostri servizi di sviluppo web. Che si tratti di un nuovo sito, un e-commerce o un chatbot come me, sono qui per te!\n\nUsa i bottoni per scoprire di più! 😊",
			"Ciao! DevNinja-bot qui! 🤖\n\nPosso aiutarti con informazioni su:\n• Sviluppo web e app\n• Prezzi e preventivi\n• Tempi di realizzazione\n• Contatti del team\n\nUsa i bottoni per esplorare! 😊",
			"Salve! Sono DevNinja-bot, il tuo assistente virtuale! 🤖\n\nSono qui per rispondere alle tue domande su sviluppo web, e-commerce, chatbot e molto altro!\n\nUsa i bottoni per iniziare! 😊",
			"Ciao! DevNinja-bot al tuo servizio! 🤖\n\nHo tutte le informazioni sui nostri servizi di sviluppo web. Usa i bottoni per scoprire tutto!\n\nServizi, prezzi, tempi, contatti... tutto a portata di click! 😊",
		},
	}
}
